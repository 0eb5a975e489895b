package mesonet

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"github.com/couchcryptid/mesonet-data/internal/domain"
)

// HydraulicParams loads the MesoSoil table from the configured file or URL.
func (c *Client) HydraulicParams(ctx context.Context) (dataframe.DataFrame, error) {
	if c.soilParams == "" {
		return dataframe.DataFrame{}, domain.ErrSoilParamsUnavailable
	}

	var body []byte
	var err error
	if isRemote(c.soilParams) {
		body, err = c.get(ctx, kindSoilParams, c.soilParams)
	} else {
		body, err = os.ReadFile(c.soilParams)
	}
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("load %s: %w", kindSoilParams, err)
	}

	df, err := decodeHydraulicParams(body)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("decode %s: %w", kindSoilParams, err)
	}
	return df, nil
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
