package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL"`

	// Path of the sqlite database backing the webhook delivery ledger.
	DatabasePath string `env:"DATABASE_PATH" envDefault:"checkout.db"`

	Stripe Stripe `envPrefix:"STRIPE_"`
	Strapi Strapi `envPrefix:"STRAPI_"`
}

type Stripe struct {
	BaseApiURL      string `env:"BASE_API_URL" envDefault:"https://api.stripe.com"`
	SecretKey       string `env:"SECRET_KEY"`
	WebhookSecret   string `env:"WEBHOOK_SECRET"`
	Currency        string `env:"CURRENCY" envDefault:"aud"`
	ShippingCountry string `env:"SHIPPING_COUNTRY" envDefault:"AU"`
}

type Strapi struct {
	URL      string `env:"URL"`
	APIToken string `env:"API_TOKEN"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
