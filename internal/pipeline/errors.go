// internal/pipeline/errors.go
package pipeline

import "errors"

// Kind rozróżnia błędy przebiegu. Wołający sprawdza rodzaj, nie treść komunikatu.
type Kind int

const (
	KindConfig     Kind = iota + 1 // brak parametrów przebiegu, nic nie zostało odczytane
	KindSourceRead                 // arkusz źródłowy nieczytelny albo brak wymaganej kolumny
	KindRowRender                  // obrazek jednego wiersza – odzyskiwalny, ląduje w logu wierszy
	KindTopLevel                   // wszystko inne (katalog, zapis tabeli, logu, przerwanie)
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindSourceRead:
		return "source_read"
	case KindRowRender:
		return "row_render"
	case KindTopLevel:
		return "top_level"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf zwraca rodzaj błędu z łańcucha albo 0, jeśli to nie *Error.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return 0
}

func IsConfig(err error) bool     { return KindOf(err) == KindConfig }
func IsSourceRead(err error) bool { return KindOf(err) == KindSourceRead }
func IsRowRender(err error) bool  { return KindOf(err) == KindRowRender }
func IsTopLevel(err error) bool   { return KindOf(err) == KindTopLevel }

// Fatal: przebieg przerwany, tabela wyjściowa nie powstała.
func Fatal(err error) bool {
	k := KindOf(err)
	return err != nil && k != KindRowRender
}
