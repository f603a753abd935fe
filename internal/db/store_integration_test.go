//go:build storetest

package db

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/aipx/internal/files/scanner"
	"github.com/vvka-141/aipx/internal/logging"
	"github.com/vvka-141/aipx/internal/services"
	"github.com/vvka-141/aipx/internal/testinfra"
	"github.com/vvka-141/aipx/internal/testing/fixtures"
	"github.com/vvka-141/aipx/pkg/aipx"
)

var testURL string

func TestMain(m *testing.M) {
	ctx := context.Background()
	ctr, err := testinfra.StartPostgres(ctx)
	if err != nil {
		panic(err)
	}
	testURL = ctr.ConnString

	code := m.Run()
	ctr.Terminate(ctx) //nolint:errcheck
	os.Exit(code)
}

func openStore(t *testing.T) *PostgresStore {
	t.Helper()
	store, err := Open(context.Background(), aipx.ConnectionConfig{URL: testURL}, logging.NewNullLogger())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func convert(t *testing.T, pkg *fixtures.Package) aipx.Result {
	t.Helper()
	svc := services.NewCollectionService(scanner.NewScannerWithFS(pkg.FS), logging.NewNullLogger())
	result, err := svc.Process(context.Background(), pkg.Root, aipx.FolderProfile{})
	require.NoError(t, err)
	return result
}

func TestPostgresStore_RoundTrip(t *testing.T) {
	store := openStore(t)
	pkg := fixtures.NewPackageBuilder("roundtrip").
		Object(fixtures.Object{
			Label:  "scan.tif",
			PUID:   "fmt/353",
			Size:   4096,
			Fixity: []fixtures.Digest{{Algorithm: "sha256", Value: "abc"}},
		}).
		Directory("letters", func(d *fixtures.DirBuilder) {
			d.Object(fixtures.Object{Label: "letter.pdf", PUID: "fmt/276"})
		}).
		Build()
	result := convert(t, pkg)

	require.NoError(t, store.Store(context.Background(), result))

	got, err := store.Collection(context.Background(), result.Root.CollectionID)
	require.NoError(t, err)
	assert.Equal(t, result.Root.ID, got.Root.ID)
	assert.Nil(t, got.Root.ParentID)
	require.Len(t, got.Items, len(result.Items))
	for i := range result.Items {
		assert.Equal(t, result.Items[i].ID, got.Items[i].ID)
		assert.Equal(t, result.Items[i].ParentIDs, got.Items[i].ParentIDs)
		assert.Equal(t, result.Items[i].Type, got.Items[i].Type)
		assert.Equal(t, result.Items[i].Original, got.Items[i].Original)
		assert.Equal(t, result.Items[i].Fixity, got.Items[i].Fixity)
	}
}

func TestPostgresStore_ReplacesCollection(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	first := sampleResult()
	require.NoError(t, store.Store(ctx, first))

	second := first
	second.Items = nil
	second.TextItems = nil
	require.NoError(t, store.Store(ctx, second))

	got, err := store.Collection(ctx, first.Root.CollectionID)
	require.NoError(t, err)
	assert.Empty(t, got.Items)
	assert.Empty(t, got.TextItems)
}

func TestPostgresStore_TextItems(t *testing.T) {
	store := openStore(t)
	result := sampleResult()
	require.NoError(t, store.Store(context.Background(), result))

	got, err := store.Collection(context.Background(), result.Root.CollectionID)
	require.NoError(t, err)
	require.Len(t, got.TextItems, 1)
	assert.Equal(t, result.TextItems[0], got.TextItems[0])
}

func TestPostgresStore_DanglingTextItemRollsBack(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	result := sampleResult()
	require.NoError(t, store.Store(ctx, result))

	broken := sampleResult()
	broken.TextItems[0].ItemID = "not-an-item"
	require.Error(t, store.Store(ctx, broken))

	got, err := store.Collection(ctx, result.Root.CollectionID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1, "failed replace leaves the previous collection intact")
}

func TestPostgresStore_UnknownCollection(t *testing.T) {
	store := openStore(t)
	_, err := store.Collection(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrCollectionNotFound)
}

func TestPostgresStore_EnsureSchemaIdempotent(t *testing.T) {
	store := openStore(t)
	require.NoError(t, store.EnsureSchema(context.Background()))
	require.NoError(t, store.EnsureSchema(context.Background()))
}

func TestIngestService_IntoPostgres(t *testing.T) {
	store := openStore(t)
	fs := fixtures.NewPackageBuilder("one").Object(fixtures.Object{Label: "a.txt"}).Build().FS
	two := fixtures.NewPackageBuilder("two").Object(fixtures.Object{Label: "b.txt"}).BuildInto(fs)

	pkgs, err := scanner.NewScannerWithFS(fs).FindPackages("/packages")
	require.NoError(t, err)
	require.Len(t, pkgs, 2)

	processor := services.NewCollectionService(scanner.NewScannerWithFS(fs), logging.NewNullLogger())
	outcomes, err := services.NewIngestService(processor, store, logging.NewNullLogger(), 2).
		Ingest(context.Background(), pkgs, aipx.FolderProfile{})
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	got, err := store.Collection(context.Background(), two.RootID())
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)
}
