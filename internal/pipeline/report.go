// internal/pipeline/report.go
package pipeline

import (
	"fmt"
	"strings"
)

type Status int

const (
	StatusGenerated Status = iota + 1
	StatusPreserved
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusGenerated:
		return "Generated"
	case StatusPreserved:
		return "Preserved"
	case StatusError:
		return "Error"
	default:
		return "?"
	}
}

// Outcome to wynik jednego wiersza.
type Outcome struct {
	Row       int // numer wiersza w arkuszu (nagłówek = 1)
	Product   string
	Code      string
	Generated bool
	Status    Status
	Image     string // nazwa pliku PNG (tylko Generated)
	Err       error  // tylko Error
}

// Line to linia logu wierszy.
func (o Outcome) Line() string {
	switch o.Status {
	case StatusGenerated:
		return fmt.Sprintf("Row %d: Generated - %s", o.Row, o.Image)
	case StatusPreserved:
		return fmt.Sprintf("Row %d: Preserved - %s", o.Row, o.Code)
	default:
		return fmt.Sprintf("Row %d: Error - %v", o.Row, o.Err)
	}
}

type Report struct {
	Source      string
	OutputTable string
	ImageDir    string
	LogPath     string
	Outcomes    []Outcome

	Generated int
	Preserved int
	Errors    int
}

func (r *Report) add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	switch o.Status {
	case StatusGenerated:
		r.Generated++
	case StatusPreserved:
		r.Preserved++
	case StatusError:
		r.Errors++
	}
}

// Lines – treść pliku logu wierszy.
func (r *Report) Lines() []string {
	out := make([]string, len(r.Outcomes))
	for i, o := range r.Outcomes {
		out[i] = o.Line()
	}
	return out
}

// Summary – podsumowanie dla operatora.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Processing finished:\n\n")
	fmt.Fprintf(&b, "  Products processed: %d\n", len(r.Outcomes))
	fmt.Fprintf(&b, "  Codes generated:    %d\n", r.Generated)
	fmt.Fprintf(&b, "  Codes preserved:    %d\n", r.Preserved)
	fmt.Fprintf(&b, "  Errors:             %d\n\n", r.Errors)
	fmt.Fprintf(&b, "Files:\n")
	fmt.Fprintf(&b, "  Table:  %s\n", r.OutputTable)
	fmt.Fprintf(&b, "  Images: %s\n", r.ImageDir)
	fmt.Fprintf(&b, "  Log:    %s\n", r.LogPath)
	return b.String()
}
