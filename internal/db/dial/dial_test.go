package dial

import (
	"context"
	"strings"
	"testing"

	"github.com/nebula-labs/catalog/internal/config"
	"github.com/nebula-labs/catalog/internal/db/mongodb"
)

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{Driver: "sqlite"}, config.StorageConfig{})
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
	if !strings.Contains(err.Error(), "sqlite") {
		t.Errorf("error should name the driver: %v", err)
	}
}

func TestOpen_MongoRequiresURI(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{Driver: config.DriverMongo, Name: "combinedDB"}, config.StorageConfig{})
	if err == nil {
		t.Fatal("expected error without uri")
	}
}

func TestOpen_Mongo(t *testing.T) {
	// The driver connects lazily; no server is needed to construct the store.
	s, err := Open(context.Background(), config.DatabaseConfig{
		Driver: config.DriverMongo,
		URI:    "mongodb://127.0.0.1:1",
		Name:   "combinedDB",
	}, config.StorageConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close()

	if _, ok := s.(*mongodb.Store); !ok {
		t.Errorf("expected *mongodb.Store, got %T", s)
	}
}

func TestOpen_RedisRequiresAddrs(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{Driver: config.DriverValkey}, config.StorageConfig{})
	if err == nil {
		t.Fatal("expected error without addrs")
	}
	if !strings.Contains(err.Error(), "valkey") {
		t.Errorf("error should name the driver: %v", err)
	}
}
