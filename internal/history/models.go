// internal/history/models.go
package history

import "time"

const (
	StatusPending = 0
	StatusDone    = 1
	StatusError   = 2
)

// runs – jeden przebieg na jednym pliku źródłowym
type Run struct {
	RunID       string `gorm:"primaryKey;column:run_id;size:36"`
	SourceFile  string `gorm:"index"`
	SHA256      string `gorm:"index;size:64"`
	SizeBytes   int64
	OutputTable string
	Status      int    `gorm:"index"` // 0=pending, 1=done, 2=error
	ErrorKind   string // rodzaj błędu przebiegu (config/source_read/top_level)
	LastError   string `gorm:"type:text"`
	RowCount    int
	Generated   int
	Preserved   int
	Errors      int
	StartedAt   time.Time `gorm:"autoCreateTime"`
	FinishedAt  *time.Time
}

// codes – kod przydzielony jednemu wierszowi
type Code struct {
	ID        uint   `gorm:"primaryKey"`
	RunID     string `gorm:"index;size:36"`
	RowNo     int
	Product   string
	Code      string `gorm:"index"`
	Generated bool
	Status    string // Generated/Preserved/Error
	Image     string
	Error     string `gorm:"type:text"`
}
