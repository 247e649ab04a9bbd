package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	DatabaseURL         string
	RedisURL            string
	ProviderBaseURL     string // real-estate data API base URL
	ProviderAPIKey      string
	GeocoderBaseURL     string // Nominatim-compatible search endpoint
	FrontendURLEndsWith string
	DevPassword         string
	AllowCrossSiteDev   bool
	HealthAdminKey      string
	CacheTTLDays        int // market snapshot lifetime, written on every refresh

	Deal DealDefaults
}

// DealDefaults are the evaluation settings applied when a property has no
// overrides. Rates are decimal fractions as strings (0.06 = 6%) so they can
// be parsed losslessly into decimals by the calculator.
type DealDefaults struct {
	SellingAgentCommissionRate string
	SellingClosingCostRate     string
	BuyingClosingCostRate      string
	AnnualTaxRate              string
	ContingencyPercentage      string
	DownPaymentPercentage      string
	MaxOfferRate               string // the "70% rule" multiplier
	MonthlyInsurance           string // whole currency units
	MonthlyUtilities           string
	HoldingMonths              int
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL_DEV")
	if env == "production" {
		dbURL = viper.GetString("DATABASE_URL_PROD")
	} else if env == "test" {
		dbURL = viper.GetString("DATABASE_URL_TEST")
	}
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL_DEV")
	}

	ttl := viper.GetInt("CACHE_TTL_DAYS")
	if ttl <= 0 {
		ttl = 30
	}
	months := viper.GetInt("DEFAULT_HOLDING_MONTHS")
	if months <= 0 {
		months = 6
	}

	return &Config{
		Env:                 env,
		Port:                port,
		DatabaseURL:         dbURL,
		RedisURL:            viper.GetString("REDIS_URL"),
		ProviderBaseURL:     stringDefault(viper.GetString("PROVIDER_BASE_URL"), "https://realty-in-us.p.rapidapi.com"),
		ProviderAPIKey:      viper.GetString("PROVIDER_API_KEY"),
		GeocoderBaseURL:     stringDefault(viper.GetString("GEOCODER_BASE_URL"), "https://nominatim.openstreetmap.org"),
		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         viper.GetString("DEV_PASSWORD"),
		AllowCrossSiteDev:   strings.EqualFold(viper.GetString("ALLOW_CROSS_SITE_DEV"), "true"),
		HealthAdminKey:      viper.GetString("HEALTH_ADMIN_KEY"),
		CacheTTLDays:        ttl,
		Deal: DealDefaults{
			SellingAgentCommissionRate: stringDefault(viper.GetString("SELLING_AGENT_COMMISSION_RATE"), "0.06"),
			SellingClosingCostRate:     stringDefault(viper.GetString("SELLING_CLOSING_COST_RATE"), "0.02"),
			BuyingClosingCostRate:      stringDefault(viper.GetString("BUYING_CLOSING_COST_RATE"), "0.03"),
			AnnualTaxRate:              stringDefault(viper.GetString("ANNUAL_TAX_RATE"), "0.02"),
			ContingencyPercentage:      stringDefault(viper.GetString("CONTINGENCY_PERCENTAGE"), "0.10"),
			DownPaymentPercentage:      stringDefault(viper.GetString("DOWN_PAYMENT_PERCENTAGE"), "0.10"),
			MaxOfferRate:               stringDefault(viper.GetString("MAX_OFFER_RATE"), "0.70"),
			MonthlyInsurance:           stringDefault(viper.GetString("MONTHLY_INSURANCE"), "150"),
			MonthlyUtilities:           stringDefault(viper.GetString("MONTHLY_UTILITIES"), "200"),
			HoldingMonths:              months,
		},
	}, nil
}

func stringDefault(s, def string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}
