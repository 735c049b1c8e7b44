package fieldstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver
)

// Driver names accepted by Open.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverS3       = "s3"
	DriverRedis    = "redis"
)

// Options selects and configures a backend for Open.
type Options struct {
	// Driver is one of memory, sqlite, postgres, s3, redis. Empty means memory.
	Driver string

	// DSN is the database/sql data source for sqlite and postgres.
	DSN string

	// Table overrides the SQL table name.
	Table string

	// Migrate creates the SQL table if it doesn't exist.
	Migrate bool

	// S3 configures the s3 driver.
	S3 S3Options

	// Redis configures the redis driver.
	Redis RedisOptions
}

// RedisOptions configures the Redis backend.
type RedisOptions struct {
	Addr     string
	Username string
	Password string
	DB       int
	Prefix   string
}

// S3Options configures the S3 backend.
type S3Options struct {
	Bucket          string
	Region          string
	Endpoint        string
	Prefix          string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
}

// Open builds the store described by opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case "", DriverMemory:
		return NewMemoryStore(), nil

	case DriverSQLite:
		return openSQL(ctx, "sqlite", DialectSQLite, opts)

	case DriverPostgres:
		return openSQL(ctx, "pgx", DialectPostgreSQL, opts)

	case DriverS3:
		if opts.S3.Bucket == "" {
			return nil, fmt.Errorf("fieldstore: s3 driver requires a bucket")
		}
		var storeOpts []S3StoreOption
		if opts.S3.Prefix != "" {
			storeOpts = append(storeOpts, WithS3Prefix(opts.S3.Prefix))
		}
		return NewS3Store(newS3Client(opts.S3), opts.S3.Bucket, storeOpts...), nil

	case DriverRedis:
		return openRedis(ctx, opts.Redis)

	default:
		return nil, fmt.Errorf("fieldstore: unknown driver %q", opts.Driver)
	}
}

func openSQL(ctx context.Context, driverName string, dialect SQLDialect, opts Options) (Store, error) {
	if opts.DSN == "" {
		return nil, fmt.Errorf("fieldstore: %s driver requires a dsn", dialect)
	}

	db, err := sql.Open(driverName, opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("fieldstore: open %s: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		// SQLite allows one writer; serialize through a single connection.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("fieldstore: ping %s: %w", dialect, err)
	}

	storeOpts := []SQLStoreOption{WithSQLDialect(dialect)}
	if opts.Table != "" {
		storeOpts = append(storeOpts, WithSQLTableName(opts.Table))
	}
	store := NewSQLStore(db, storeOpts...)

	if opts.Migrate {
		if err := store.CreateTable(ctx); err != nil {
			db.Close()
			return nil, err
		}
	}

	return &ownedSQLStore{SQLStore: store, db: db}, nil
}

// ownedSQLStore closes the database it opened.
type ownedSQLStore struct {
	*SQLStore
	db *sql.DB
}

func (s *ownedSQLStore) Close() error {
	s.SQLStore.Close()
	return s.db.Close()
}

func newS3Client(o S3Options) *s3.Client {
	opts := s3.Options{
		Region:       o.Region,
		UsePathStyle: o.UsePathStyle,
	}
	if o.Endpoint != "" {
		opts.BaseEndpoint = aws.String(o.Endpoint)
	}
	if o.AccessKeyID != "" {
		creds := aws.Credentials{
			AccessKeyID:     o.AccessKeyID,
			SecretAccessKey: o.SecretAccessKey,
			Source:          "folio config",
		}
		opts.Credentials = aws.NewCredentialsCache(aws.CredentialsProviderFunc(
			func(context.Context) (aws.Credentials, error) { return creds, nil },
		))
	}
	return s3.New(opts)
}

func openRedis(ctx context.Context, o RedisOptions) (Store, error) {
	if o.Addr == "" {
		return nil, fmt.Errorf("fieldstore: redis driver requires an addr")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     o.Addr,
		Username: o.Username,
		Password: o.Password,
		DB:       o.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("fieldstore: ping redis: %w", err)
	}

	var storeOpts []RedisStoreOption
	if o.Prefix != "" {
		storeOpts = append(storeOpts, WithRedisPrefix(o.Prefix))
	}
	return &ownedRedisStore{RedisStore: NewRedisStore(GoRedis(client), storeOpts...), client: client}, nil
}

// ownedRedisStore closes the client it opened.
type ownedRedisStore struct {
	*RedisStore
	client *redis.Client
}

func (s *ownedRedisStore) Close() error {
	s.RedisStore.Close()
	return s.client.Close()
}
