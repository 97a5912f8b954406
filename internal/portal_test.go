package internal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPortal(src SymbolSource) (*Portal, *MemoryStore) {
	st := NewMemoryStore()
	return NewPortal(st, testConfig(), src), st
}

func TestCreateHubWritesFields(t *testing.T) {
	ctx := context.Background()
	p, st := newTestPortal(&seqSource{seq: "HUB01"})

	created, err := p.CreateHub(ctx, "  Maple Court  ", HubHomeManager)
	require.NoError(t, err)
	assert.Equal(t, "Maple Court", created.Name)
	assert.Equal(t, "admin", created.Type)
	assert.Equal(t, "HUB01", created.LinkCode)

	r, ok, err := st.Get(ctx, "userHubs", created.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, map[string]any{
		"homeName": "Maple Court",
		"homeType": "admin",
		"hubCode":  "HUB01",
		"userId":   "",
		"image":    "",
		"pinned":   false,
		"unitName": "",
		"units":    []any{},
	}, r.Data)
}

func TestCreateHubAvoidsExistingHubCodes(t *testing.T) {
	ctx := context.Background()
	p, st := newTestPortal(&seqSource{seq: "AAAAABBBBB"})
	_, _ = st.Put(ctx, "userHubs", "h0", map[string]any{"hubCode": "AAAAA"})

	created, err := p.CreateHub(ctx, "Second", HubTenant)
	require.NoError(t, err)
	assert.Equal(t, "BBBBB", created.LinkCode)
	assert.Equal(t, "tenant", created.Type)
}

func TestCreateDeviceAppliesTypeDefaults(t *testing.T) {
	cases := []struct {
		typ   string
		name  string
		extra map[string]any
	}{
		{"ac", "Air Conditioner", map[string]any{"temp": "", "windMode": "", "autoMode": ""}},
		{"dishwasher", "Dishwasher", map[string]any{"length": "", "soap": false, "waterTemp": ""}},
		{"fan", "Fan", map[string]any{"rpm": ""}},
		{"heatconvector", "Heat Convector", map[string]any{"temp": ""}},
		{"light", "Light", map[string]any{"brightness": "", "brightnessMode": ""}},
		{"smartdoor", "Smart Door", map[string]any{"locked": false}},
		{"speaker", "Speaker", map[string]any{"volume": ""}},
		{"thermostat", "Thermostat", map[string]any{"temp": "", "autoMode": ""}},
		{"tv", "TV", map[string]any{"volume": "", "brightness": ""}},
		{"washingmachine", "Washing Machine", map[string]any{"length": "", "soap": false, "waterTemp": ""}},
	}
	require.Len(t, DeviceTypes(), len(cases))
	for _, tc := range cases {
		t.Run(tc.typ, func(t *testing.T) {
			ctx := context.Background()
			p, st := newTestPortal(&seqSource{seq: "DEV01"})
			created, err := p.CreateDevice(ctx, "Unit 4", tc.typ)
			require.NoError(t, err)
			assert.Equal(t, tc.name, created.Type)
			assert.Equal(t, "DEV01", created.LinkCode)

			want := map[string]any{
				"deviceName": "Unit 4",
				"deviceType": tc.typ,
				"linkCode":   "DEV01",
				"hubCode":    "",
				"on":         false,
				"pinned":     false,
			}
			for k, v := range tc.extra { want[k] = v }
			r, ok, err := st.Get(ctx, "devices", created.ID)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, want, r.Data)
		})
	}
}

func TestCreateRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	p, st := newTestPortal(nil)

	_, err := p.CreateHub(ctx, "   ", HubTenant)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = p.CreateDevice(ctx, "", "fan")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = p.CreateDevice(ctx, "Toaster", "toaster")
	assert.ErrorIs(t, err, ErrUnknownDeviceType)

	hubs, _ := st.FetchAll(ctx, "userHubs")
	devs, _ := st.FetchAll(ctx, "devices")
	assert.Empty(t, hubs)
	assert.Empty(t, devs)
}

func TestCreateFailsWhenStoreIsDown(t *testing.T) {
	p := NewPortal(failingStore{}, testConfig(), nil)
	_, err := p.CreateDevice(context.Background(), "Lamp", "light")
	assert.ErrorIs(t, err, ErrRetrievalFailed)
}

func TestListAvailable(t *testing.T) {
	ctx := context.Background()
	p, st := newTestPortal(nil)
	_, _ = st.Put(ctx, "userHubs", "free-empty", map[string]any{"homeName": "A", "homeType": "tenant", "hubCode": "AAAAA", "userId": ""})
	_, _ = st.Put(ctx, "userHubs", "free-null", map[string]any{"homeName": "B", "homeType": "admin", "hubCode": "BBBBB", "userId": nil})
	_, _ = st.Put(ctx, "userHubs", "claimed", map[string]any{"homeName": "C", "hubCode": "CCCCC", "userId": "uid-1"})
	_, _ = st.Put(ctx, "devices", "dev-free", map[string]any{"deviceName": "Fan", "deviceType": "fan", "linkCode": "DDDDD", "hubCode": ""})
	_, _ = st.Put(ctx, "devices", "dev-null", map[string]any{"deviceName": "TV", "deviceType": "tv", "linkCode": "EEEEE", "hubCode": nil})
	_, _ = st.Put(ctx, "devices", "dev-linked", map[string]any{"deviceName": "Lamp", "linkCode": "FFFFF", "hubCode": "AAAAA"})

	got, err := p.ListAvailable(ctx)
	require.NoError(t, err)

	var hubIDs, devIDs []string
	for _, h := range got.Hubs { hubIDs = append(hubIDs, h.ID) }
	for _, d := range got.Devices { devIDs = append(devIDs, d.ID) }
	assert.ElementsMatch(t, []string{"free-empty", "free-null"}, hubIDs)
	assert.ElementsMatch(t, []string{"dev-free", "dev-null"}, devIDs)
}

func TestListAvailableEmpty(t *testing.T) {
	p, _ := newTestPortal(nil)
	got, err := p.ListAvailable(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got.Hubs)
	assert.NotNil(t, got.Devices)
	assert.Empty(t, got.Hubs)
	assert.Empty(t, got.Devices)
}

func TestDeleteAndDevice(t *testing.T) {
	ctx := context.Background()
	p, _ := newTestPortal(nil)
	created, err := p.CreateDevice(ctx, "Porch Light", "light")
	require.NoError(t, err)

	d, err := p.Device(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Porch Light", d.Name)
	assert.Equal(t, "light", d.Type)
	assert.Equal(t, created.LinkCode, d.LinkCode)

	require.NoError(t, p.Delete(ctx, KindDevice, created.ID))
	_, err = p.Device(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, p.Delete(ctx, KindHub, " "), ErrInvalidInput)
}

func TestParseKindAndHubType(t *testing.T) {
	for in, want := range map[string]Kind{"hub": KindHub, "Hubs": KindHub, "device": KindDevice, "devices": KindDevice} {
		k, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, k)
	}
	_, err := ParseKind("users")
	assert.ErrorIs(t, err, ErrInvalidInput)

	for in, want := range map[string]HubType{"": HubTenant, "tenant": HubTenant, "homeManager": HubHomeManager, "admin": HubHomeManager} {
		h, err := ParseHubType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, h)
	}
	_, err = ParseHubType("landlord")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPreviewLinkCodeDoesNotWrite(t *testing.T) {
	ctx := context.Background()
	p, st := newTestPortal(&seqSource{seq: "PRE01"})
	code, err := p.PreviewLinkCode(ctx, KindHub)
	require.NoError(t, err)
	assert.Equal(t, "PRE01", code.Code)
	hubs, _ := st.FetchAll(ctx, "userHubs")
	assert.Empty(t, hubs)
}
