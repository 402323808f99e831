package config

type InternalConfig struct {
	App         App
	Appointment Appointment
}

type App struct {
	Env                         string
	Port                        string
	Version                     string
	EndpointPrefix              string
	MaxRequests                 int
	ShutdownTimeoutInSeconds    int
	RateLimitRequestsPerSecond  int
	RateLimitBlockTimeInMinutes int
}

type Appointment struct {
	SeedOnStart       bool
	CacheTTLInMinutes int
	EventQueue        string
}
