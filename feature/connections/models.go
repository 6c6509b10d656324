package connections

import (
	"time"

	"tablediff/core/endpoint"
)

// Record is a registered connection.
type Record struct {
	ID        string            `gorm:"primaryKey;type:varchar(64)"`
	Name      string            `gorm:"type:varchar(255)"`
	Engine    string            `gorm:"type:varchar(16)"`
	Path      string            `gorm:"type:text"`
	Host      string            `gorm:"type:varchar(255)"`
	Port      int
	User      string            `gorm:"type:varchar(255)"`
	Password  string            `gorm:"type:varchar(255)"`
	Database  string            `gorm:"type:varchar(255)"`
	Params    map[string]string `gorm:"serializer:json"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the GORM table name.
func (Record) TableName() string { return "connections" }

// Connection converts the record to an endpoint connection.
func (r Record) Connection() endpoint.Connection {
	return endpoint.Connection{
		ID:       r.ID,
		Name:     r.Name,
		Engine:   endpoint.Engine(r.Engine),
		Path:     r.Path,
		Host:     r.Host,
		Port:     r.Port,
		User:     r.User,
		Password: r.Password,
		Database: r.Database,
		Params:   r.Params,
	}.Snapshot()
}

func fromConnection(c endpoint.Connection) Record {
	c = c.Snapshot()
	return Record{
		ID:       c.ID,
		Name:     c.Name,
		Engine:   string(c.Engine),
		Path:     c.Path,
		Host:     c.Host,
		Port:     c.Port,
		User:     c.User,
		Password: c.Password,
		Database: c.Database,
		Params:   c.Params,
	}
}

// View is the public form of a connection. The password is never exposed.
type View struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Engine      string            `json:"engine"`
	Path        string            `json:"path,omitempty"`
	Host        string            `json:"host,omitempty"`
	Port        int               `json:"port,omitempty"`
	User        string            `json:"user,omitempty"`
	Database    string            `json:"database,omitempty"`
	Params      map[string]string `json:"params,omitempty"`
	HasPassword bool              `json:"has_password"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// View returns the public form of r.
func (r Record) View() View {
	return View{
		ID:          r.ID,
		Name:        r.Name,
		Engine:      r.Engine,
		Path:        r.Path,
		Host:        r.Host,
		Port:        r.Port,
		User:        r.User,
		Database:    r.Database,
		Params:      r.Params,
		HasPassword: r.Password != "",
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
