package internal

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpFileName(t *testing.T) {
	assert.Equal(t, "devices_data_2024-03-09.json", DumpFileName(time.Date(2024, 3, 9, 23, 59, 0, 0, time.UTC)))
}

func TestDumpDevices(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	_, _ = st.Put(ctx, "devices", "d1", map[string]any{"deviceName": "Fan", "deviceType": "fan", "linkCode": "AAAAA", "hubCode": "", "rpm": ""})
	_, _ = st.Put(ctx, "devices", "d2", map[string]any{"deviceName": "Door", "deviceType": "smartdoor", "linkCode": "BBBBB", "hubCode": "HUB01", "locked": true})

	dir := filepath.Join(t.TempDir(), "out")
	now := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)
	path, n, err := DumpDevices(ctx, st, "devices", dir, now)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, filepath.Join(dir, "devices_data_2024-03-09.json"), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var docs []map[string]any
	require.NoError(t, json.Unmarshal(b, &docs))
	require.Len(t, docs, 2)
	assert.Equal(t, "d1", docs[0]["id"])
	assert.Equal(t, "Fan", docs[0]["deviceName"])
	assert.Equal(t, "d2", docs[1]["id"])
	assert.Equal(t, true, docs[1]["locked"])
	assert.Equal(t, "HUB01", docs[1]["hubCode"])
}

func TestDumpDevicesEmpty(t *testing.T) {
	dir := t.TempDir()
	path, n, err := DumpDevices(context.Background(), NewMemoryStore(), "devices", dir, time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(b))
}

func TestDumpDevicesStoreError(t *testing.T) {
	_, _, err := DumpDevices(context.Background(), failingStore{}, "devices", t.TempDir(), time.Now())
	assert.ErrorIs(t, err, errStoreDown)
}
