package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/mamadbah2/tally/internal/domain/models"
)

const (
	snapshotCollection = "snapshots"
	reportCollection   = "daily_reports"
)

// MongoDBRepository stores the bookkeeping snapshot and archives daily reports.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
	key    string
}

// NewMongoDBRepository connects to MongoDB. key identifies the snapshot document.
func NewMongoDBRepository(ctx context.Context, uri, dbName, key string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := verifyConnection(ctx, client); err != nil {
		return nil, err
	}

	return &MongoDBRepository{
		client: client,
		dbName: dbName,
		key:    key,
	}, nil
}

type pingCloser interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
	Disconnect(ctx context.Context) error
}

// verifyConnection pings the server and releases the client when it is unreachable.
func verifyConnection(ctx context.Context, client pingCloser) error {
	if err := client.Ping(ctx, nil); err != nil {
		if derr := client.Disconnect(context.WithoutCancel(ctx)); derr != nil {
			return fmt.Errorf("failed to ping mongodb: %w (disconnect: %v)", err, derr)
		}
		return fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return nil
}

// Load reads the snapshot document.
func (r *MongoDBRepository) Load(ctx context.Context) (models.Snapshot, bool, error) {
	var doc snapshotDocument
	err := r.client.Database(r.dbName).Collection(snapshotCollection).
		FindOne(ctx, bson.M{"_id": r.key}).
		Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Snapshot{}, false, nil
	}
	if err != nil {
		return models.Snapshot{}, false, fmt.Errorf("failed to read snapshot %s: %w", r.key, err)
	}

	snap, err := doc.decode()
	if err != nil {
		return models.Snapshot{}, false, err
	}
	return snap, true, nil
}

// Save replaces the snapshot document.
func (r *MongoDBRepository) Save(ctx context.Context, snap models.Snapshot) error {
	doc, err := newSnapshotDocument(r.key, snap, time.Now().UTC())
	if err != nil {
		return err
	}

	_, err = r.client.Database(r.dbName).Collection(snapshotCollection).
		ReplaceOne(ctx, bson.M{"_id": r.key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", r.key, err)
	}
	return nil
}

// SaveDailyReport archives a daily report, replacing any earlier one for the same day.
func (r *MongoDBRepository) SaveDailyReport(ctx context.Context, report models.DailyReport) error {
	doc, err := newReportDocument(report)
	if err != nil {
		return err
	}

	collection := r.client.Database(r.dbName).Collection(reportCollection)
	_, err = collection.ReplaceOne(ctx, bson.M{"_id": report.Date}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to insert daily report: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

type reportDocument struct {
	Date             string               `bson:"_id"`
	CashIn           primitive.Decimal128 `bson:"cash_in"`
	CashOut          primitive.Decimal128 `bson:"cash_out"`
	Net              primitive.Decimal128 `bson:"net"`
	TransactionCount int                  `bson:"transaction_count"`
	Receivables      primitive.Decimal128 `bson:"receivables"`
	Payables         primitive.Decimal128 `bson:"payables"`
	LowStockCount    int                  `bson:"low_stock_count"`
	CreatedAt        time.Time            `bson:"created_at"`
}

func newReportDocument(report models.DailyReport) (reportDocument, error) {
	amounts := []decimal.Decimal{report.CashIn, report.CashOut, report.Net, report.Receivables, report.Payables}
	converted := make([]primitive.Decimal128, len(amounts))
	for i, amount := range amounts {
		v, err := toDecimal128(amount)
		if err != nil {
			return reportDocument{}, err
		}
		converted[i] = v
	}

	return reportDocument{
		Date:             report.Date,
		CashIn:           converted[0],
		CashOut:          converted[1],
		Net:              converted[2],
		TransactionCount: report.TransactionCount,
		Receivables:      converted[3],
		Payables:         converted[4],
		LowStockCount:    report.LowStockCount,
		CreatedAt:        report.CreatedAt,
	}, nil
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("convert amount %s: %w", d, err)
	}
	return v, nil
}
