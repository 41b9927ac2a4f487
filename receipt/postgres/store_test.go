//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/ory/dockertest/v3"
	"github.com/sirupsen/logrus"

	postgrestest "github.com/code-payments/flipchat-billing/database/postgres/test"

	"github.com/code-payments/flipchat-billing/receipt/tests"
)

var testDB *sql.DB

func TestMain(m *testing.M) {
	log := logrus.StandardLogger()

	pool, err := dockertest.NewPool("")
	if err != nil {
		log.WithError(err).Error("Error creating docker pool")
		os.Exit(1)
	}

	// Start a postgres container
	databaseUrl, cleanup, err := postgrestest.StartPostgresDB(pool)
	if err != nil {
		log.WithError(err).Error("Error starting postgres image")
		os.Exit(1)
	}

	// Wait for the database to be ready
	testDB, err = postgrestest.WaitForConnection(pool, databaseUrl)
	if err != nil {
		log.WithError(err).Error("Error waiting for connection")
		cleanup()
		os.Exit(1)
	}

	if err := CreateSchema(context.Background(), testDB); err != nil {
		log.WithError(err).Error("Error creating schema")
		cleanup()
		os.Exit(1)
	}

	code := m.Run()
	testDB.Close()
	cleanup()
	os.Exit(code)
}

func TestReceipt_PostgresStore(t *testing.T) {
	testStore := NewInPostgres(testDB)
	teardown := func() {
		testStore.(*store).reset()
	}
	tests.RunStoreTests(t, testStore, teardown)
}
