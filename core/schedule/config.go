package schedule

import "time"

// Config controls the background scheduler.
type Config struct {
	// Enabled mounts the schedule routes and starts the scheduler loop with the server.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// TickSeconds is how often due tasks are looked up.
	TickSeconds int `mapstructure:"tick_seconds" default:"30"`
}

// Tick returns the lookup interval, at least one second.
func (c Config) Tick() time.Duration {
	if c.TickSeconds <= 0 {
		return time.Second
	}
	return time.Duration(c.TickSeconds) * time.Second
}
