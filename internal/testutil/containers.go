// Database containers for the integration suite and cmd/testcontainers.
// Expects a reachable Docker daemon; image and credentials come from the
// environment when set.

package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/localnerve/novelsdb/data"
	"github.com/localnerve/novelsdb/internal/config"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	containerDatabase = "novelsdb"
	containerUser     = "novelsdb"
)

// Database is a started database container provisioned with the novelsdb schema
type Database struct {
	Container testcontainers.Container
	Config    *config.Config
}

// Terminate stops and removes the container
func (d *Database) Terminate(t *testing.T) {
	if d == nil || d.Container == nil {
		return
	}
	if err := d.Container.Terminate(context.Background()); err != nil {
		logMessage(t, "Failed to terminate %s container: %v", d.Config.DBType, err)
	}
}

type dbFlavor struct {
	image    string
	port     string
	dataDir  string
	driver   string
	env      func(password string) map[string]string
	dsn      func(host, port, password string) string
	ddl      []string
	waitsFor func(port nat.Port) wait.Strategy
}

var flavors = map[string]dbFlavor{
	"mariadb": {
		image:   "mariadb:11",
		port:    "3306",
		dataDir: "/var/lib/mysql",
		driver:  "mysql",
		env: func(password string) map[string]string {
			return map[string]string{
				"MARIADB_ROOT_PASSWORD": password,
				"MARIADB_DATABASE":      containerDatabase,
				"MARIADB_USER":          containerUser,
				"MARIADB_PASSWORD":      password,
			}
		},
		dsn: func(host, port, password string) string {
			return fmt.Sprintf("root:%s@tcp(%s:%s)/%s?parseTime=true", password, host, port, containerDatabase)
		},
		ddl: []string{data.InitdbMariaDBTables, data.InitdbMariaDBPrivileges},
		waitsFor: func(port nat.Port) wait.Strategy {
			return wait.ForListeningPort(port).WithStartupTimeout(90 * time.Second)
		},
	},
	"postgres": {
		image:   "postgres:17-alpine",
		port:    "5432",
		dataDir: "/var/lib/postgresql/data",
		driver:  "pgx",
		env: func(password string) map[string]string {
			return map[string]string{
				"POSTGRES_USER":     containerUser,
				"POSTGRES_PASSWORD": password,
				"POSTGRES_DB":       containerDatabase,
			}
		},
		dsn: func(host, port, password string) string {
			return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", containerUser, password, host, port, containerDatabase)
		},
		ddl: []string{data.InitdbPostgresTables},
		waitsFor: func(port nat.Port) wait.Strategy {
			return wait.ForAll(
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
				wait.ForListeningPort(port),
			).WithDeadline(90 * time.Second)
		},
	},
}

// StartDatabase starts a MariaDB or Postgres container, provisions the schema
// from the embedded DDL and returns a Config pointing at it. DB_IMAGE and
// DB_PASSWORD override the defaults.
func StartDatabase(ctx context.Context, t *testing.T, dbType string) (*Database, error) {
	if dbType == "mysql" {
		dbType = "mariadb"
	}
	flavor, ok := flavors[dbType]
	if !ok {
		return nil, fmt.Errorf("no container for database type %q", dbType)
	}

	dbImage := getEnv("DB_IMAGE", flavor.image)
	password := getEnv("DB_PASSWORD", "novelsdb-test")

	tcpPort, err := nat.NewPort("tcp", flavor.port)
	if err != nil {
		return nil, fmt.Errorf("database port: %w", err)
	}

	if exists, err := imageExists(ctx, dbImage); err == nil && !exists {
		logMessage(t, "Image %s not present, pulling...", dbImage)
	}

	dbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Name:         fmt.Sprintf("novelsdb-%s-%s", dbType, uuid.NewString()[:8]),
			Image:        dbImage,
			ExposedPorts: []string{string(tcpPort)},
			Env:          flavor.env(password),
			WaitingFor:   flavor.waitsFor(tcpPort),
			HostConfigModifier: func(hostConfig *container.HostConfig) {
				// Throwaway data, keep it off the disk
				hostConfig.Tmpfs = map[string]string{flavor.dataDir: "rw"}
			},
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", dbType, err)
	}

	db := &Database{Container: dbContainer}

	host, err := dbContainer.Host(ctx)
	if err != nil {
		db.Terminate(t)
		return nil, fmt.Errorf("container host: %w", err)
	}
	mapped, err := dbContainer.MappedPort(ctx, tcpPort)
	if err != nil {
		db.Terminate(t)
		return nil, fmt.Errorf("container port: %w", err)
	}

	if err := provision(ctx, flavor, flavor.dsn(host, mapped.Port(), password)); err != nil {
		db.Terminate(t)
		return nil, fmt.Errorf("provision %s: %w", dbType, err)
	}

	cfg := NewTestConfig(os.TempDir())
	cfg.DBType = dbType
	cfg.DBHost = host
	cfg.DBPort = mapped.Port()
	cfg.DBDatabase = containerDatabase
	cfg.DBUser = containerUser
	cfg.DBPassword = password
	cfg.DBConnectionLimit = 5
	db.Config = cfg

	logMessage(t, "DB_TYPE=%s DB_HOST=%s DB_PORT=%s", dbType, host, mapped.Port())
	return db, nil
}

// provision waits for the server to take connections and runs the DDL
func provision(ctx context.Context, flavor dbFlavor, dsn string) error {
	sqlDB, err := sql.Open(flavor.driver, dsn)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	// A listening port does not mean the server takes logins yet
	for i := 0; i < 30; i++ {
		if err = sqlDB.PingContext(ctx); err == nil {
			break
		}
		time.Sleep(1 * time.Second)
	}
	if err != nil {
		return fmt.Errorf("not ready after 30 seconds: %w", err)
	}

	for _, script := range flavor.ddl {
		if err := executeSQL(ctx, sqlDB, script); err != nil {
			return err
		}
	}
	return nil
}

// executeSQL runs a script statement by statement. Scripts hold only
// full-line comments and no semicolons inside literals.
func executeSQL(ctx context.Context, db *sql.DB, script string) error {
	var kept []string
	for _, line := range strings.Split(script, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		kept = append(kept, line)
	}

	for _, stmt := range strings.Split(strings.Join(kept, "\n"), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w : when executing > %s", err, stmt)
		}
	}
	return nil
}

func imageExists(ctx context.Context, imageName string) (bool, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return false, err
	}
	defer cli.Close()

	images, err := cli.ImageList(ctx, image.ListOptions{})
	if err != nil {
		return false, err
	}

	for _, img := range images {
		for _, tag := range img.RepoTags {
			if tag == imageName {
				return true, nil
			}
		}
	}

	return false, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func logMessage(t *testing.T, format string, args ...any) {
	if t != nil {
		t.Logf(format, args...)
	} else {
		fmt.Printf(format+"\n", args...)
	}
}
