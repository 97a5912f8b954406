package internal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Portal implements the dev portal operations on top of a Store.
type Portal struct {
	Store   Store
	Gen     *CodeGenerator
	Hubs    string
	Devices string
}

func NewPortal(st Store, cfg Config, src SymbolSource) *Portal {
	return &Portal{
		Store:   st,
		Gen:     NewCodeGenerator(cfg.MaxAttempts, src),
		Hubs:    cfg.HubsCollection,
		Devices: cfg.DevicesCollection,
	}
}

// Created is the outcome of a create operation, shown on the success panel.
type Created struct {
	ID       string
	Name     string
	Type     string
	LinkCode string
}

// CreateHub assigns a link code unique among hubs and inserts the hub.
func (p *Portal) CreateHub(ctx context.Context, name string, t HubType) (Created, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Created{}, errors.Join(ErrInvalidInput, errors.New("hub name is required"))
	}
	code, err := p.Gen.NewLinkCode(ctx, p.Store, p.Hubs, HubCodeField)
	if err != nil { return Created{}, err }
	id, err := p.Store.Insert(ctx, p.Hubs, newHubFields(name, t, code.Code))
	if err != nil { return Created{}, fmt.Errorf("create hub: %w", err) }
	log.WithFields(logrus.Fields{"id": id, "linkCode": code.Code}).Info("hub created")
	return Created{ID: id, Name: name, Type: t.Stored(), LinkCode: code.Code}, nil
}

// CreateDevice assigns a link code unique among devices and inserts the device
// with its type's attribute defaults.
func (p *Portal) CreateDevice(ctx context.Context, name, typeID string) (Created, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Created{}, errors.Join(ErrInvalidInput, errors.New("device name is required"))
	}
	dt, ok := LookupDeviceType(typeID)
	if !ok { return Created{}, fmt.Errorf("%w: %q", ErrUnknownDeviceType, typeID) }
	code, err := p.Gen.NewLinkCode(ctx, p.Store, p.Devices, DeviceCodeField)
	if err != nil { return Created{}, err }
	id, err := p.Store.Insert(ctx, p.Devices, newDeviceFields(name, dt, code.Code))
	if err != nil { return Created{}, fmt.Errorf("create device: %w", err) }
	log.WithFields(logrus.Fields{"id": id, "type": dt.ID, "linkCode": code.Code}).Info("device created")
	return Created{ID: id, Name: name, Type: dt.Name, LinkCode: code.Code}, nil
}

// Available is the home screen listing.
type Available struct {
	Hubs    []Hub    `json:"hubs"`
	Devices []Device `json:"devices"`
}

// ListAvailable returns hubs without a user and devices without a hub. Both a
// null and an empty value count as unlinked.
func (p *Portal) ListAvailable(ctx context.Context) (Available, error) {
	out := Available{Hubs: []Hub{}, Devices: []Device{}}
	hubs, err := p.unlinked(ctx, p.Hubs, "userId")
	if err != nil { return out, fmt.Errorf("list hubs: %w", err) }
	for _, r := range hubs { out.Hubs = append(out.Hubs, hubFromRecord(r)) }
	devs, err := p.unlinked(ctx, p.Devices, "hubCode")
	if err != nil { return out, fmt.Errorf("list devices: %w", err) }
	for _, r := range devs { out.Devices = append(out.Devices, deviceFromRecord(r)) }
	return out, nil
}

func (p *Portal) unlinked(ctx context.Context, collection, field string) ([]Record, error) {
	nulls, err := p.Store.WhereEqual(ctx, collection, field, nil)
	if err != nil { return nil, err }
	empties, err := p.Store.WhereEqual(ctx, collection, field, "")
	if err != nil { return nil, err }
	return append(nulls, empties...), nil
}

// Kind selects the hub or device collection.
type Kind string

const (
	KindHub    Kind = "hub"
	KindDevice Kind = "device"
)

// ParseKind accepts singular and plural names.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hub", "hubs":
		return KindHub, nil
	case "device", "devices":
		return KindDevice, nil
	}
	return "", fmt.Errorf("%w: kind must be hub or device, got %q", ErrInvalidInput, s)
}

// collection returns the collection and link code field for kind.
func (p *Portal) collection(k Kind) (string, string) {
	if k == KindHub { return p.Hubs, HubCodeField }
	return p.Devices, DeviceCodeField
}

// Delete removes a hub or device record.
func (p *Portal) Delete(ctx context.Context, k Kind, id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.Join(ErrInvalidInput, errors.New("id is required"))
	}
	col, _ := p.collection(k)
	if err := p.Store.Delete(ctx, col, id); err != nil {
		return fmt.Errorf("delete %s %s: %w", k, id, err)
	}
	log.WithFields(logrus.Fields{"kind": k, "id": id}).Info("record deleted")
	return nil
}

// Device loads a single device for the detail screen.
func (p *Portal) Device(ctx context.Context, id string) (Device, error) {
	r, ok, err := p.Store.Get(ctx, p.Devices, id)
	if err != nil { return Device{}, fmt.Errorf("get device %s: %w", id, err) }
	if !ok { return Device{}, fmt.Errorf("device %s: %w", id, ErrNotFound) }
	return deviceFromRecord(r), nil
}

// PreviewLinkCode generates a code unique within kind's collection without
// writing anything.
func (p *Portal) PreviewLinkCode(ctx context.Context, k Kind) (LinkCode, error) {
	col, field := p.collection(k)
	return p.Gen.NewLinkCode(ctx, p.Store, col, field)
}
