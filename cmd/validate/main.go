// Command validate checks a MesoSoil hydraulic parameter table before it is
// used as SOIL_PARAMS_SOURCE. It verifies depths, parameter ranges and the
// soil-water curves derived from each row, and optionally that every site in
// the table is a station in the live network export.
//
// Usage:
//
//	go run ./cmd/validate -soil testdata/mesosoil.csv [-network]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"time"

	mesonet "github.com/couchcryptid/mesonet-data"
	"github.com/couchcryptid/mesonet-data/internal/domain"
)

// Tolerances for a row to be considered physically plausible.
const (
	textureSumTolerance = 2.0 // percent
	minDeltaT           = 1.0 // °C, wettest calibrated reading
	maxDeltaT           = 4.5 // °C, driest calibrated reading
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	soil := flag.String("soil", "", "MesoSoil CSV file path or URL")
	network := flag.Bool("network", false, "also check sites against the Mesonet station export")
	apiURL := flag.String("api-url", mesonet.DefaultAPIURL, "Mesonet API URL for -network")
	flag.Parse()

	if *soil == "" {
		flag.Usage()
		os.Exit(2)
	}

	client := mesonet.New(
		mesonet.WithSoilParams(*soil),
		mesonet.WithAPIURL(*apiURL),
		mesonet.WithTimeout(time.Minute),
	)
	os.Exit(run(context.Background(), os.Stdout, client, *network))
}

func run(ctx context.Context, w io.Writer, client *mesonet.Client, network bool) int {
	fmt.Fprintln(w, "=== MesoSoil Parameter Validation ===")
	fmt.Fprintln(w)

	df, err := client.RetrieveHydraulicParams(ctx, mesonet.HydraulicQuery{})
	if err != nil {
		fmt.Fprintf(w, "FATAL: load soil parameters: %v\n", err)
		return 1
	}
	records, err := mesonet.HydraulicRecords(df)
	if err != nil {
		fmt.Fprintf(w, "FATAL: read soil parameters: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateDepths(records),
		validateRanges(records),
		validateCurves(records),
	}
	if network {
		phases = append(phases, validateNetwork(ctx, client, records))
	}

	fmt.Fprintln(w)
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Records: %d rows, %d sites\n", len(records), len(sitesOf(records)))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return 1
}

// validateDepths checks every row has a sensor depth and every site has each depth once.
func validateDepths(records []domain.HydraulicParamRecord) *phase {
	p := &phase{name: "Phase 1: Sensor depths"}
	seen := make(map[domain.StationID]map[domain.Depth]int)
	for i, r := range records {
		if _, err := domain.ParseDepth(int(r.Depth)); err != nil || r.Depth == 0 {
			p.errorf("row %d %s: depth %d cm is not a sensor depth", i+1, r.Site, r.Depth)
			continue
		}
		if seen[r.Site] == nil {
			seen[r.Site] = make(map[domain.Depth]int)
		}
		seen[r.Site][r.Depth]++
	}
	for _, site := range sortedSites(seen) {
		for _, d := range domain.Depths {
			switch n := seen[site][d]; {
			case n == 0:
				p.errorf("%s: no row for %d cm", site, d)
			case n > 1:
				p.errorf("%s: %d rows for %d cm", site, n, d)
			}
		}
	}
	return p
}

// validateRanges checks measured parameters are physically plausible. Missing
// (NaN) values are allowed; the derived columns for that depth will be NaN.
func validateRanges(records []domain.HydraulicParamRecord) *phase {
	p := &phase{name: "Phase 2: Parameter ranges"}
	for _, r := range records {
		id := fmt.Sprintf("%s %dcm", r.Site, r.Depth)
		if sum := r.Sand + r.Silt + r.Clay; !math.IsNaN(sum) && math.Abs(sum-100) > textureSumTolerance {
			p.errorf("%s: sand+silt+clay = %.1f%%", id, sum)
		}
		if !math.IsNaN(r.ThetaR) && !math.IsNaN(r.ThetaS) && (r.ThetaR < 0 || r.ThetaR >= r.ThetaS || r.ThetaS > 1) {
			p.errorf("%s: want 0 <= theta_r (%.3f) < theta_s (%.3f) <= 1", id, r.ThetaR, r.ThetaS)
		}
		if !math.IsNaN(r.Th33) && !math.IsNaN(r.Th1500) && r.Th1500 >= r.Th33 {
			p.errorf("%s: wilting point %.3f >= field capacity %.3f", id, r.Th1500, r.Th33)
		}
		if r.Alpha <= 0 {
			p.errorf("%s: alpha %.4f must be positive", id, r.Alpha)
		}
		if r.N <= 1 {
			p.errorf("%s: n %.3f must exceed 1", id, r.N)
		}
		if r.Ks < 0 {
			p.errorf("%s: Ks %.2f is negative", id, r.Ks)
		}
	}
	return p
}

// validateCurves derives soil moisture across the calibrated delta-T range and
// checks VWC stays within [theta_r, theta_s] and decreases as the soil dries.
func validateCurves(records []domain.HydraulicParamRecord) *phase {
	p := &phase{name: "Phase 3: Derived soil moisture"}
	for _, r := range records {
		if math.IsNaN(r.ThetaR) || math.IsNaN(r.ThetaS) || math.IsNaN(r.Alpha) || math.IsNaN(r.N) {
			continue
		}
		id := fmt.Sprintf("%s %dcm", r.Site, r.Depth)
		prev := math.Inf(1)
		for dt := minDeltaT; dt <= maxDeltaT; dt += 0.5 {
			vwc := domain.DeriveSoilMoisture(dt, r).VWC
			if math.IsNaN(vwc) || vwc < r.ThetaR || vwc > r.ThetaS {
				p.errorf("%s: VWC %.4f at delta-T %.1f outside [%.3f, %.3f]", id, vwc, dt, r.ThetaR, r.ThetaS)
				break
			}
			if vwc > prev {
				p.errorf("%s: VWC rises from %.4f to %.4f at delta-T %.1f", id, prev, vwc, dt)
				break
			}
			prev = vwc
		}
	}
	return p
}

// validateNetwork checks every soil site is a station in the network export.
func validateNetwork(ctx context.Context, client *mesonet.Client, records []domain.HydraulicParamRecord) *phase {
	p := &phase{name: "Phase 4: Network coverage"}
	df, err := client.RetrieveGeoInfo(ctx, mesonet.GeoInfoQuery{})
	if err != nil {
		p.errorf("load station export: %v", err)
		return p
	}
	known := make(map[string]bool, df.Nrow())
	for _, s := range df.Col(domain.SiteColumn).Records() {
		known[s] = true
	}
	for _, site := range sitesOf(records) {
		if !known[string(site)] {
			p.errorf("%s: not in the station export", site)
		}
	}
	return p
}

func sitesOf(records []domain.HydraulicParamRecord) []domain.StationID {
	seen := make(map[domain.StationID]map[domain.Depth]int)
	for _, r := range records {
		seen[r.Site] = nil
	}
	return sortedSites(seen)
}

func sortedSites(m map[domain.StationID]map[domain.Depth]int) []domain.StationID {
	sites := make([]domain.StationID, 0, len(m))
	for s := range m {
		sites = append(sites, s)
	}
	sort.Slice(sites, func(i, j int) bool { return sites[i] < sites[j] })
	return sites
}
