package storage

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestMultiRegion() (*MultiRegionBackend, *mockS3, *mockS3, *mockPresigner, *mockPresigner) {
	usMock := newMockS3()
	euMock := newMockS3()
	usPresign := &mockPresigner{host: "us.images.test"}
	euPresign := &mockPresigner{host: "eu.images.test"}
	us := newTestS3Backend(usMock, usPresign, RegionUS)
	eu := newTestS3Backend(euMock, euPresign, RegionEU)
	return NewMultiRegionBackend(us, eu), usMock, euMock, usPresign, euPresign
}

func TestMultiRegionStoreWritesPrimaryOnly(t *testing.T) {
	b, usMock, euMock, _, _ := newTestMultiRegion()

	obj, err := b.Store(context.Background(), "gallery", []byte("data"), "a.png", "image/png")
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if _, ok := usMock.objects[obj.Key]; !ok {
		t.Error("object missing from primary bucket")
	}
	if len(euMock.objects) != 0 {
		t.Error("store should never write to the EU bucket synchronously")
	}
}

func TestMultiRegionEUMissFallsBackToPrimary(t *testing.T) {
	b, _, _, _, _ := newTestMultiRegion()
	ctx := context.Background()

	obj, err := b.Store(ctx, "gallery", []byte("payload"), "a.png", "image/png")
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	// Not yet replicated to EU: a preferred-EU read must still succeed.
	data, err := b.RetrieveRegion(ctx, obj.Key, RegionEU)
	if err != nil {
		t.Fatalf("retrieve with eu preference: %v", err)
	}
	if !bytes.Equal(data, []byte("payload")) {
		t.Errorf("retrieved %q, want %q", data, "payload")
	}
}

func TestMultiRegionEUHitServedFromEU(t *testing.T) {
	b, _, euMock, _, _ := newTestMultiRegion()
	ctx := context.Background()

	// Simulate out-of-band replication.
	euMock.objects["gallery/replicated.png"] = []byte("eu copy")

	data, err := b.RetrieveRegion(ctx, "gallery/replicated.png", RegionEU)
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if string(data) != "eu copy" {
		t.Errorf("retrieved %q, want the EU copy", data)
	}
}

func TestMultiRegionNoFallbackFromUS(t *testing.T) {
	b, _, euMock, _, _ := newTestMultiRegion()

	// Object exists only in EU — a US-preferred read must NOT find it,
	// since the primary is authoritative.
	euMock.objects["gallery/orphan.png"] = []byte("x")

	_, err := b.RetrieveRegion(context.Background(), "gallery/orphan.png", RegionUS)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound (no US->EU fallback)", err)
	}
}

func TestMultiRegionAccessURLRegion(t *testing.T) {
	b, usMock, euMock, _, _ := newTestMultiRegion()
	ctx := context.Background()

	usMock.objects["gallery/a.png"] = []byte("x")

	// Not in EU yet: signed by the primary.
	url, err := b.AccessURLRegion(ctx, "gallery/a.png", time.Hour, RegionEU)
	if err != nil {
		t.Fatalf("access url: %v", err)
	}
	if !strings.Contains(url, "us.images.test") {
		t.Errorf("url = %q, want primary-signed url before replication", url)
	}

	// Replicated: signed by the EU bucket.
	euMock.objects["gallery/a.png"] = []byte("x")
	url, err = b.AccessURLRegion(ctx, "gallery/a.png", time.Hour, RegionEU)
	if err != nil {
		t.Fatalf("access url after replication: %v", err)
	}
	if !strings.Contains(url, "eu.images.test") {
		t.Errorf("url = %q, want EU-signed url after replication", url)
	}
}

func TestMultiRegionEUOutagePropagates(t *testing.T) {
	b, _, euMock, _, _ := newTestMultiRegion()
	euMock.headErr = errors.New("connection refused")

	_, err := b.AccessURLRegion(context.Background(), "gallery/a.png", time.Hour, RegionEU)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable (no silent fallback on outage)", err)
	}
}
