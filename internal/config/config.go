package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	Database    Database

	Payment  Payment  `envPrefix:"PAYMENT_"`
	Identity Identity `envPrefix:"IDENTITY_"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host            string        `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port            string        `env:"HTTP_PORT" envDefault:"3000"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	AllowedOrigins  []string      `env:"HTTP_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

func (h HTTPServer) Address() string {
	return h.Host + ":" + h.Port
}

type Database struct {
	Driver          string        `env:"DB_DRIVER" envDefault:"sqlite"` // sqlite, mysql, postgres
	URL             string        `env:"DATABASE_URL" envDefault:"courier.db"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"50"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"1h"`
	LogLevel        string        `env:"DB_LOG_LEVEL" envDefault:"warn"`
}

type Payment struct {
	Provider        string    `env:"PROVIDER" envDefault:"stripe"` // stripe, braintree, paypal
	DefaultCurrency string    `env:"DEFAULT_CURRENCY" envDefault:"usd"`
	Stripe          Stripe    `envPrefix:"STRIPE_"`
	Braintree       Braintree `envPrefix:"BRAINTREE_"`
	Paypal          Paypal    `envPrefix:"PAYPAL_"`
}

type Stripe struct {
	BaseApiURL string        `env:"BASE_API_URL" envDefault:"https://api.stripe.com"`
	SecretKey  string        `env:"SECRET_KEY"`
	Timeout    time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

type Braintree struct {
	Environment string `env:"ENVIRONMENT" envDefault:"sandbox"`
	MerchantID  string `env:"MERCHANT_ID"`
	PublicKey   string `env:"PUBLIC_KEY"`
	PrivateKey  string `env:"PRIVATE_KEY"`
}

type Paypal struct {
	BaseApiURL   string        `env:"BASE_API_URL" envDefault:"https://api-m.sandbox.paypal.com"`
	ClientID     string        `env:"CLIENT_ID"`
	ClientSecret string        `env:"CLIENT_SECRET"`
	Timeout      time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

// Identity configures bearer token verification. JWTSecret selects HMAC
// verification; otherwise the RSA public key is fetched from PublicKeyURL.
type Identity struct {
	JWTSecret    string `env:"JWT_SECRET"`
	PublicKeyURL string `env:"PUBLIC_KEY_URL"`
	Issuer       string `env:"ISSUER"`
	EmailClaim   string `env:"EMAIL_CLAIM" envDefault:"email"`
}
