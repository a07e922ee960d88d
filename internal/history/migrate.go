// internal/history/migrate.go
package history

import "fmt"

// Migrate tworzy/aktualizuje schemat bazy.
func (h *Handle) Migrate() error {
	if err := h.DB.AutoMigrate(&Run{}, &Code{}); err != nil {
		return fmt.Errorf("AutoMigrate error: %w", err)
	}
	return nil
}
