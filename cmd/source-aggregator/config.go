// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/source-aggregator/pkg/types"
)

func init() {
	viper.SetDefault("search.timeout", defaultTimeout)
	viper.SetDefault("search.user_agent", defaultUserAgent)
	viper.SetDefault("search.max_results", 10)
	viper.SetDefault("search.max_sources_per_domain", 2)
	viper.SetDefault("search.over_fetch_factor", 2.0)
	viper.SetDefault("search.enable_exa", true)
	viper.SetDefault("search.enable_perplexity", true)

	viper.SetDefault("fetch.timeout", 8*time.Second)
	viper.SetDefault("fetch.user_agent", defaultUserAgent)
	viper.SetDefault("fetch.max_concurrent", 3)
	viper.SetDefault("fetch.retries", 2)
	viper.SetDefault("fetch.max_words", 500)
	viper.SetDefault("fetch.burst_per_second", 5)

	viper.SetDefault("store.data_dir", defaultDataDir)
}

// pipelineConfig builds the stage configuration from the config file,
// environment, and defaults. Command flags override individual fields.
func pipelineConfig() types.PipelineConfig {
	return types.PipelineConfig{
		Search: types.SearchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("search.timeout"),
				UserAgent: viper.GetString("search.user_agent"),
			},
			MaxResults:          viper.GetInt("search.max_results"),
			MaxSourcesPerDomain: viper.GetInt("search.max_sources_per_domain"),
			OverFetchFactor:     viper.GetFloat64("search.over_fetch_factor"),
			EnableExa:           viper.GetBool("search.enable_exa"),
			EnablePerplexity:    viper.GetBool("search.enable_perplexity"),
			ExaAPIKey:           viper.GetString("search.exa_api_key"),
			PerplexityAPIKey:    viper.GetString("search.perplexity_api_key"),
		},
		Fetch: types.FetchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("fetch.timeout"),
				UserAgent: viper.GetString("fetch.user_agent"),
			},
			MaxConcurrent:  viper.GetInt("fetch.max_concurrent"),
			Retries:        viper.GetInt("fetch.retries"),
			MaxWords:       viper.GetInt("fetch.max_words"),
			BurstPerSecond: viper.GetInt("fetch.burst_per_second"),
		},
		Store: types.StoreConfig{
			DataDir: viper.GetString("store.data_dir"),
		},
	}
}
