package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"garage_crm/internal/domain/entities"
	"garage_crm/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	defaultTablePrefix = "crm_"
	keyAttribute       = "id"
	entityIDField      = "_id"
	searchFilter       = "search"
)

var ErrRecordNotFound = errors.New("record not found")

// StoreError carries a message safe to show to users.
type StoreError struct {
	Message string
	Err     error
}

func (e *StoreError) Error() string       { return fmt.Sprintf("%s: %v", e.Message, e.Err) }
func (e *StoreError) Unwrap() error       { return e.Err }
func (e *StoreError) UserMessage() string { return e.Message }

// DynamoAPI is the subset of the DynamoDB client the store uses.
type DynamoAPI interface {
	dynamodb.ScanAPIClient
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// DynamoStore implements IRemoteStore on DynamoDB, one table per collection.
//
// Table requirements:
//   - name: <prefix><collection> (e.g. crm_jobs)
//   - PK: id (string); the entity's "_id" field is stored under it
//
// The dashboard collection has no table: it is computed from jobs and customers.
type DynamoStore struct {
	ddb    DynamoAPI
	prefix string
	now    func() time.Time
}

var _ interfaces.IRemoteStore = (*DynamoStore)(nil)

func NewDynamoStore(ddb DynamoAPI, tablePrefix string) *DynamoStore {
	if tablePrefix == "" {
		tablePrefix = getenvDefault("DYNAMODB_TABLE_PREFIX", defaultTablePrefix)
	}
	return &DynamoStore{ddb: ddb, prefix: tablePrefix, now: time.Now}
}

func (s *DynamoStore) table(collection string) string {
	return s.prefix + collection
}

func (s *DynamoStore) List(ctx context.Context, collection string, filters map[string]string, out any) error {
	if collection == interfaces.CollectionDashboard {
		summary, err := s.dashboard(ctx)
		if err != nil {
			return err
		}
		return fromRecords(summary, out)
	}
	records, err := s.scan(ctx, collection, filters)
	if err != nil {
		return err
	}
	return fromRecords(records, out)
}

func (s *DynamoStore) scan(ctx context.Context, collection string, filters map[string]string) ([]map[string]any, error) {
	in := &dynamodb.ScanInput{TableName: aws.String(s.table(collection))}
	if expr, names, values := equalityFilter(filters); expr != "" {
		in.FilterExpression = aws.String(expr)
		in.ExpressionAttributeNames = names
		in.ExpressionAttributeValues = values
	}

	records := []map[string]any{}
	p := dynamodb.NewScanPaginator(s.ddb, in)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			log.Printf("[remote][dynamodb] scan failed table=%s err=%v", s.table(collection), err)
			return nil, err
		}
		for _, item := range page.Items {
			rec, err := decodeItem(item)
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		a, _ := records[i]["createdAt"].(string)
		b, _ := records[j]["createdAt"].(string)
		return a > b
	})
	return records, nil
}

// equalityFilter builds "#f0 = :v0 AND ..." from filters. Free-text search is
// applied by the caller, not by the store.
func equalityFilter(filters map[string]string) (string, map[string]string, map[string]types.AttributeValue) {
	keys := make([]string, 0, len(filters))
	for k := range filters {
		if k != searchFilter {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return "", nil, nil
	}
	sort.Strings(keys)
	names := map[string]string{}
	values := map[string]types.AttributeValue{}
	clauses := make([]string, 0, len(keys))
	for i, k := range keys {
		n, v := fmt.Sprintf("#f%d", i), fmt.Sprintf(":v%d", i)
		names[n] = k
		values[v] = &types.AttributeValueMemberS{Value: filters[k]}
		clauses = append(clauses, n+" = "+v)
	}
	return strings.Join(clauses, " AND "), names, values
}

func (s *DynamoStore) Create(ctx context.Context, collection string, payload any, out any) error {
	rec, err := toRecord(payload)
	if err != nil {
		return err
	}
	id := recordID(rec)
	if id == "" {
		id = uuid.NewString()
	}
	delete(rec, entityIDField)
	rec[keyAttribute] = id
	if v, _ := rec["createdAt"].(string); v == "" || strings.HasPrefix(v, "0001-01-01") {
		rec["createdAt"] = s.now().UTC().Format(time.RFC3339Nano)
	}

	av, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return err
	}
	_, err = s.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.table(collection)),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": keyAttribute,
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return &StoreError{Message: "Record already exists", Err: err}
		}
		log.Printf("[remote][dynamodb] put failed table=%s id=%s err=%v", s.table(collection), id, err)
		return err
	}
	return fromRecords(withEntityID(rec), out)
}

func (s *DynamoStore) Update(ctx context.Context, collection string, id string, patch map[string]any, out any) error {
	fields, err := toRecord(patch)
	if err != nil {
		return err
	}
	delete(fields, entityIDField)
	delete(fields, keyAttribute)
	if len(fields) == 0 {
		return fmt.Errorf("update %s/%s: empty patch", collection, id)
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	names := map[string]string{}
	values := map[string]types.AttributeValue{}
	sets := make([]string, 0, len(keys))
	for i, k := range keys {
		n, v := fmt.Sprintf("#u%d", i), fmt.Sprintf(":u%d", i)
		av, err := attributevalue.Marshal(fields[k])
		if err != nil {
			return err
		}
		names[n] = k
		values[v] = av
		sets = append(sets, n+" = "+v)
	}

	res, err := s.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.table(collection)),
		Key: map[string]types.AttributeValue{
			keyAttribute: &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression:       aws.String("attribute_exists(#id)"),
		UpdateExpression:          aws.String("SET " + strings.Join(sets, ", ")),
		ExpressionAttributeValues: values,
		ExpressionAttributeNames:  mergeNames(names, map[string]string{"#id": keyAttribute}),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return &StoreError{Message: "Record not found", Err: fmt.Errorf("%w: %s/%s", ErrRecordNotFound, collection, id)}
		}
		log.Printf("[remote][dynamodb] update failed table=%s id=%s err=%v", s.table(collection), id, err)
		return err
	}
	if len(res.Attributes) == 0 {
		return nil
	}
	rec, err := decodeItem(res.Attributes)
	if err != nil {
		return err
	}
	return fromRecords(rec, out)
}

func (s *DynamoStore) Delete(ctx context.Context, collection string, id string) error {
	_, err := s.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table(collection)),
		Key: map[string]types.AttributeValue{
			keyAttribute: &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression:      aws.String("attribute_exists(#id)"),
		ExpressionAttributeNames: map[string]string{"#id": keyAttribute},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return &StoreError{Message: "Record not found", Err: fmt.Errorf("%w: %s/%s", ErrRecordNotFound, collection, id)}
		}
		return err
	}
	return nil
}

// dashboard scans jobs and customers concurrently and aggregates them.
func (s *DynamoStore) dashboard(ctx context.Context) (entities.DashboardSummary, error) {
	var jobs []entities.Job
	var customers []entities.Customer

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		recs, err := s.scan(gctx, interfaces.CollectionJobs, nil)
		if err != nil {
			return fmt.Errorf("scan jobs: %w", err)
		}
		return fromRecords(recs, &jobs)
	})
	g.Go(func() error {
		recs, err := s.scan(gctx, interfaces.CollectionCustomers, nil)
		if err != nil {
			return fmt.Errorf("scan customers: %w", err)
		}
		return fromRecords(recs, &customers)
	})
	if err := g.Wait(); err != nil {
		return entities.DashboardSummary{}, err
	}
	return summarize(jobs, customers), nil
}

func summarize(jobs []entities.Job, customers []entities.Customer) entities.DashboardSummary {
	sum := entities.DashboardSummary{TotalCustomers: len(customers)}
	for _, j := range jobs {
		switch j.ResolvedStage() {
		case entities.JobStageCompleted:
			sum.CompletedJobs++
			sum.TotalRevenue += j.TotalAmount
		case entities.JobStageCancelled:
			sum.CancelledJobs++
			continue
		default:
			sum.ActiveJobs++
		}
		if j.PaymentStatus != entities.PaymentPaid {
			sum.PendingPayments++
		}
	}
	return sum
}

func decodeItem(item map[string]types.AttributeValue) (map[string]any, error) {
	var rec map[string]any
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return nil, err
	}
	return withEntityID(rec), nil
}

// withEntityID exposes the key attribute under the entity's "_id" field.
func withEntityID(rec map[string]any) map[string]any {
	if id, ok := rec[keyAttribute]; ok {
		if _, has := rec[entityIDField]; !has {
			rec[entityIDField] = id
		}
	}
	return rec
}

func recordID(rec map[string]any) string {
	for _, k := range []string{entityIDField, keyAttribute} {
		if v, ok := rec[k].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
