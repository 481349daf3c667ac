// Package importer ingests transaction CSV files dropped into a watched
// directory. Each file holds rows of
// date,type,category,subcategory,description,amount; valid rows are inserted
// for the configured owner and the file is renamed with a .done suffix.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"dompetku/models"
	"dompetku/pkg/finance"
	"dompetku/pkg/notify"
)

// Run processes any CSV files already in dir, then watches it for new ones.
// Blocks until the watcher fails.
func Run(db *gorm.DB, hub *notify.Hub, dir, ownerUsername string) error {
	if ownerUsername == "" {
		return fmt.Errorf("importer requires IMPORT_USER to attribute rows")
	}
	var owner models.User
	if err := db.Where("username = ?", ownerUsername).First(&owner).Error; err != nil {
		return fmt.Errorf("importer owner %q not found: %w", ownerUsername, err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for _, name := range listCSVFiles(dir) {
		processFile(db, hub, dir, name, owner.ID)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return err
	}
	slog.Info("watching import directory", "dir", dir, "owner", ownerUsername)

	// debounce map so partially written files settle before parsing
	pending := map[string]time.Time{}
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				name := filepath.Base(ev.Name)
				if isCSV(name) {
					pending[name] = time.Now()
				}
			}
		case <-ticker.C:
			now := time.Now()
			for name, t := range pending {
				if now.Sub(t) > 300*time.Millisecond { // stable
					delete(pending, name)
					processFile(db, hub, dir, name, owner.ID)
				}
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("import watch error", "error", err)
		}
	}
}

func listCSVFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !isCSV(e.Name()) {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out
}

func isCSV(name string) bool {
	if strings.HasSuffix(name, ".done") {
		return false
	}
	return strings.EqualFold(filepath.Ext(name), ".csv")
}

func processFile(db *gorm.DB, hub *notify.Hub, dir, name string, ownerID uint) {
	batch := uuid.NewString()[:8]
	path := filepath.Join(dir, name)
	f, err := os.Open(path)
	if err != nil {
		slog.Warn("cannot open import file", "file", name, "error", err)
		return
	}
	defer f.Close()

	hub.Publish(notify.SyncStart, "import:"+name)
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	inserted, skipped := 0, 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		tx, ok := parseRecord(record, ownerID)
		if !ok {
			skipped++
			continue
		}
		if err := db.Create(&tx).Error; err != nil {
			slog.Warn("import insert failed", "file", name, "batch", batch, "error", err)
			skipped++
			continue
		}
		inserted++
	}

	if err := os.Rename(path, path+".done"); err != nil {
		slog.Warn("failed to mark import file done", "file", name, "error", err)
	}
	if inserted == 0 && skipped > 0 {
		hub.Publish(notify.SyncError, "import:"+name)
	} else {
		hub.Publish(notify.SyncComplete, "import:"+name)
	}
	slog.Info("import file processed", "file", name, "batch", batch, "inserted", inserted, "skipped", skipped)
}

// parseRecord validates one CSV row with the same rules as the HTTP API.
func parseRecord(record []string, ownerID uint) (models.Transaction, bool) {
	if len(record) < 6 {
		return models.Transaction{}, false
	}
	date, err := time.Parse("2006-01-02", strings.TrimSpace(record[0]))
	if err != nil {
		return models.Transaction{}, false
	}
	txType := strings.TrimSpace(record[1])
	if txType != models.TypeIncome && txType != models.TypeExpense {
		return models.Transaction{}, false
	}
	category := strings.TrimSpace(record[2])
	if txType == models.TypeIncome {
		category = finance.IncomeCategory
	} else if category == "" {
		return models.Transaction{}, false
	}
	subcategory := strings.TrimSpace(record[3])
	if subcategory == "" {
		return models.Transaction{}, false
	}
	description := strings.TrimSpace(record[4])
	if len(description) > 200 {
		return models.Transaction{}, false
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(record[5]))
	if err != nil || !amount.IsPositive() {
		return models.Transaction{}, false
	}
	return models.Transaction{
		UserID:      ownerID,
		Date:        date,
		Type:        txType,
		Category:    category,
		Subcategory: subcategory,
		Description: description,
		Amount:      amount,
	}, true
}
