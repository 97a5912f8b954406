package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DumpFileName is the dated file name used for a devices dump.
func DumpFileName(now time.Time) string {
	return fmt.Sprintf("devices_data_%s.json", now.Format("2006-01-02"))
}

// DumpDevices writes every document of the devices collection to a dated JSON
// file in dir and logs a summary of each device. It returns the file path.
func DumpDevices(ctx context.Context, st Store, collection, dir string, now time.Time) (string, int, error) {
	log.Info("extracting devices data")
	recs, err := st.FetchAll(ctx, collection)
	if err != nil { return "", 0, fmt.Errorf("fetch %s: %w", collection, err) }

	docs := make([]map[string]any, 0, len(recs))
	for i, r := range recs {
		d := deviceFromRecord(r)
		log.Printf("[Device %d] id=%s name=%q type=%s linkCode=%s hubCode=%q on=%t pinned=%t",
			i+1, d.ID, d.Name, d.Type, d.LinkCode, d.HubCode, d.On, d.Pinned)
		doc := map[string]any{"id": r.ID}
		for k, v := range r.Data { doc[k] = v }
		docs = append(docs, doc)
	}

	b, err := json.MarshalIndent(docs, "", "  ")
	if err != nil { return "", 0, fmt.Errorf("encode devices: %w", err) }
	if dir == "" { dir = "." }
	if err := os.MkdirAll(dir, 0o755); err != nil { return "", 0, err }
	path := filepath.Join(dir, DumpFileName(now))
	if err := os.WriteFile(path, b, 0o644); err != nil { return "", 0, err }
	log.Printf("total devices found: %d, written to %s", len(recs), path)
	return path, len(recs), nil
}
