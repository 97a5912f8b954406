package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Firestore struct {
	Client *firestore.Client
	ProjID string
}

// NewFirestore connects to the project. The emulator wins when
// FIRESTORE_EMULATOR_HOST is set; otherwise credsFile, then the conf dir key.
func NewFirestore(ctx context.Context, projectID, credsFile string) (*Firestore, error) {
	if projectID == "" {
		return nil, fmt.Errorf("firestore: project id is required (set FIREBASE_PROJECT_ID)")
	}
	// The client library talks to the emulator without credentials.
	if os.Getenv("FIRESTORE_EMULATOR_HOST") != "" {
		client, err := firestore.NewClient(ctx, projectID)
		if err != nil { return nil, fmt.Errorf("firestore emulator client: %w", err) }
		return &Firestore{Client: client, ProjID: projectID}, nil
	}
	if credsFile != "" {
		client, err := firestore.NewClient(ctx, projectID, option.WithCredentialsFile(credsFile))
		if err == nil {
			return &Firestore{Client: client, ProjID: projectID}, nil
		}
		return nil, fmt.Errorf("failed to create Firestore client with %s: %w", credsFile, err)
	}
	credsPath := filepath.Join(confDir(), "serviceAccountKey.json")
	if fi, err := os.Stat(credsPath); err == nil && !fi.IsDir() {
		client, err := firestore.NewClient(ctx, projectID, option.WithCredentialsFile(credsPath))
		if err == nil { return &Firestore{Client: client, ProjID: projectID}, nil }
		return nil, fmt.Errorf("failed to create Firestore client using %s (try setting GOOGLE_APPLICATION_CREDENTIALS): %w", credsPath, err)
	}
	return nil, fmt.Errorf("service account credentials not found: set GOOGLE_APPLICATION_CREDENTIALS or place key at %s", credsPath)
}

func (f *Firestore) Close() {
	_ = f.Client.Close()
}

// FetchAll reads every document of the collection.
func (f *Firestore) FetchAll(ctx context.Context, collection string) ([]Record, error) {
	return collect(f.Client.Collection(collection).Documents(ctx))
}

// WhereEqual runs a single equality filter. A nil value matches documents
// whose field is stored as null, not documents missing the field.
func (f *Firestore) WhereEqual(ctx context.Context, collection, field string, value any) ([]Record, error) {
	return collect(f.Client.Collection(collection).Where(field, "==", value).Documents(ctx))
}

func (f *Firestore) Get(ctx context.Context, collection, id string) (Record, bool, error) {
	snap, err := f.Client.Collection(collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound { return Record{}, false, nil }
	if err != nil { return Record{}, false, err }
	return Record{ID: snap.Ref.ID, Data: snap.Data()}, true, nil
}

func (f *Firestore) Insert(ctx context.Context, collection string, data map[string]any) (string, error) {
	ref, _, err := f.Client.Collection(collection).Add(ctx, data)
	if err != nil { return "", err }
	return ref.ID, nil
}

func (f *Firestore) Delete(ctx context.Context, collection, id string) error {
	_, err := f.Client.Collection(collection).Doc(id).Delete(ctx)
	return err
}

func collect(it *firestore.DocumentIterator) ([]Record, error) {
	defer it.Stop()
	var out []Record
	for {
		snap, err := it.Next()
		if err == iterator.Done { break }
		if err != nil { return nil, err }
		out = append(out, Record{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return out, nil
}

var _ Store = (*Firestore)(nil)
