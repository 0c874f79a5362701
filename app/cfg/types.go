package cfg

// Cfg holds the resolved process configuration.
type Cfg struct {
	DatabasePath      string
	FeedsDir          string
	Port              string
	WorkerCount       int
	SchedulerInterval int // seconds
	APIAccessKey      string
	UserAgent         string
	Debug             bool
	Version           string
}
