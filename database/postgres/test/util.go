package test

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/pkg/errors"

	_ "github.com/jackc/pgx/v4/stdlib"
)

const (
	containerName     = "postgres"
	containerVersion  = "14"
	containerAutoKill = 120 // seconds

	port     = 5432
	user     = "billing"
	password = "billing"
	dbName   = "billing"
)

// StartPostgresDB starts a postgres container and returns its connection url.
func StartPostgresDB(pool *dockertest.Pool) (databaseUrl string, cleanup func(), err error) {
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: containerName,
		Tag:        containerVersion,
		Env: []string{
			"POSTGRES_USER=" + user,
			"POSTGRES_PASSWORD=" + password,
			"POSTGRES_DB=" + dbName,
			"listen_addresses='*'",
		},
		ExposedPorts: []string{fmt.Sprintf("%d/tcp", port)},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return "", nil, errors.Wrap(err, "could not start postgres container")
	}

	resource.Expire(containerAutoKill)

	hostAndPort := resource.GetHostPort(fmt.Sprintf("%d/tcp", port))
	databaseUrl = fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable", user, password, hostAndPort, dbName)

	cleanup = func() {
		if err := pool.Purge(resource); err != nil {
			fmt.Printf("Could not purge resource: %s\n", err)
		}
	}

	return databaseUrl, cleanup, nil
}

// WaitForConnection retries until the database accepts connections and
// returns the open handle.
func WaitForConnection(pool *dockertest.Pool, databaseUrl string) (*sql.DB, error) {
	pool.MaxWait = 2 * time.Minute

	var db *sql.DB
	err := pool.Retry(func() error {
		var err error
		db, err = sql.Open("pgx", databaseUrl)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return err
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not connect to postgres")
	}

	return db, nil
}
