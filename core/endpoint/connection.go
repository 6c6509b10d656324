package endpoint

import (
	"fmt"
	"maps"
	"time"
)

// Engine names a supported database engine.
type Engine string

const (
	EngineSQLite   Engine = "sqlite"
	EngineMySQL    Engine = "mysql"
	EngineMariaDB  Engine = "mariadb"
	EnginePostgres Engine = "postgres"
)

// Valid reports whether e is a supported engine.
func (e Engine) Valid() bool {
	switch e {
	case EngineSQLite, EngineMySQL, EngineMariaDB, EnginePostgres:
		return true
	}
	return false
}

// FileBased reports whether the engine addresses its database by file path.
func (e Engine) FileBased() bool { return e == EngineSQLite }

// Connection holds the parameters needed to reach an endpoint.
type Connection struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Engine   Engine            `json:"engine"`
	Path     string            `json:"path,omitempty"`
	Host     string            `json:"host,omitempty"`
	Port     int               `json:"port,omitempty"`
	User     string            `json:"user,omitempty"`
	Password string            `json:"password,omitempty"`
	Database string            `json:"database,omitempty"`
	Params   map[string]string `json:"params,omitempty"`
}

// Snapshot returns a copy of c that shares no mutable state with it.
func (c Connection) Snapshot() Connection {
	s := c
	if c.Params != nil {
		s.Params = maps.Clone(c.Params)
	}
	return s
}

// Validate checks that the parameters required by the engine are present.
func (c Connection) Validate() error {
	if !c.Engine.Valid() {
		return fmt.Errorf("unsupported engine %q", c.Engine)
	}
	if c.Engine.FileBased() {
		if c.Path == "" {
			return fmt.Errorf("%s connection requires a path", c.Engine)
		}
		return nil
	}
	if c.Host == "" || c.Database == "" {
		return fmt.Errorf("%s connection requires host and database", c.Engine)
	}
	return nil
}

// SortMode selects how cursors obtain key order.
type SortMode string

const (
	SortServer SortMode = "server"
	SortMemory SortMode = "memory"
	SortAuto   SortMode = "auto"
)

// Options tune an adapter.
type Options struct {
	// SortMode defaults to SortAuto.
	SortMode SortMode
	// MaterializeLimit is the maximum number of rows a memory-sorted cursor may hold.
	MaterializeLimit int64
	// Timeout bounds connection establishment. Zero means 30 seconds.
	Timeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.SortMode == "" {
		o.SortMode = SortAuto
	}
	if o.MaterializeLimit <= 0 {
		o.MaterializeLimit = 100000
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	return o
}
