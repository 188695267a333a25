package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/qline-io/qline/internal/auth/domain"
	authrepo "github.com/qline-io/qline/internal/auth/repository"
	entrydomain "github.com/qline-io/qline/internal/entry/domain"
	entryrepo "github.com/qline-io/qline/internal/entry/repository"
	entryservice "github.com/qline-io/qline/internal/entry/service"
	"github.com/qline-io/qline/internal/integration/converter"
	"github.com/qline-io/qline/internal/integration/domain"
	journaldomain "github.com/qline-io/qline/internal/journal/domain"
	journalrepo "github.com/qline-io/qline/internal/journal/repository"
	journalservice "github.com/qline-io/qline/internal/journal/service"
	queuedomain "github.com/qline-io/qline/internal/queue/domain"
	queuerepo "github.com/qline-io/qline/internal/queue/repository"
	"github.com/qline-io/qline/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	node    *snowflake.Node
	svc     domain.Service
	queueID snowflake.ID
	userID  snowflake.ID
}

func newFixture(t *testing.T, queueType queuedomain.Type) *fixture {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&authdomain.User{},
		&queuedomain.Queue{},
		&queuedomain.Administrator{},
		&entrydomain.Entry{},
		&journaldomain.Record{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zap.NewNop()
	entries := entryservice.NewService(
		conn,
		log,
		node,
		entryrepo.NewRepository(conn),
		queuerepo.NewRepository(conn),
		authrepo.NewRepository(conn),
		journalservice.NewService(log, node, journalrepo.NewRepository(conn)),
	)
	svc := NewService(log, converter.NewRegistry(), entries)

	userID := node.Generate()
	require.NoError(t, conn.Create(&authdomain.User{
		ID:    userID,
		Email: userID.String() + "@example.com",
	}).Error)

	queueID := node.Generate()
	require.NoError(t, conn.Create(&queuedomain.Queue{
		ID:         queueID,
		OwnerID:    userID,
		Name:       "intake",
		Type:       queueType,
		Visibility: queuedomain.VisibilityPublic,
	}).Error)

	return &fixture{db: conn, node: node, svc: svc, queueID: queueID, userID: userID}
}

func TestProcess_JSONToJSON(t *testing.T) {
	f := newFixture(t, queuedomain.TypeOrganizational)

	payload := fmt.Sprintf(`{"queueId":"%s","userId":"%s","date":"2026-04-01","time":"09:30"}`, f.queueID, f.userID)
	result, err := f.svc.Process(context.Background(), payload, "application/json", "application/json")

	require.NoError(t, err)
	assert.Equal(t, "application/json", result.MediaType)

	var echoed map[string]any
	require.NoError(t, json.Unmarshal([]byte(result.Body), &echoed))
	assert.Equal(t, f.queueID.String(), echoed["queueId"])
	assert.Equal(t, f.userID.String(), echoed["userId"])
	assert.Equal(t, "2026-04-01", echoed["date"])
	assert.Equal(t, "09:30", echoed["time"])

	var count int64
	require.NoError(t, f.db.Model(&entrydomain.Entry{}).Where("queue_id = ?", f.queueID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestProcess_XMLToYAML(t *testing.T) {
	f := newFixture(t, queuedomain.TypeSelfOrganized)

	payload := fmt.Sprintf(`<entry><queueId>%s</queueId><userId>%s</userId></entry>`, f.queueID, f.userID)
	result, err := f.svc.Process(context.Background(), payload, "application/xml", "application/yaml")

	require.NoError(t, err)
	assert.Equal(t, "application/yaml", result.MediaType)
	assert.Contains(t, result.Body, "queueId: \""+f.queueID.String()+"\"")
}

func TestProcess_AcceptDefaultsToJSON(t *testing.T) {
	f := newFixture(t, queuedomain.TypeSelfOrganized)

	payload := fmt.Sprintf(`{"queueId":"%s","userId":"%s"}`, f.queueID, f.userID)
	result, err := f.svc.Process(context.Background(), payload, "application/json", "")

	require.NoError(t, err)
	assert.Equal(t, "application/json", result.MediaType)
}

func TestProcess_UnsupportedContentType(t *testing.T) {
	f := newFixture(t, queuedomain.TypeSelfOrganized)

	_, err := f.svc.Process(context.Background(), "{}", "text/plain", "application/json")
	assert.ErrorIs(t, err, domain.ErrUnsupportedMediaType)
}

func TestProcess_MalformedPayload(t *testing.T) {
	f := newFixture(t, queuedomain.TypeSelfOrganized)

	_, err := f.svc.Process(context.Background(), `{"queueId":`, "application/json", "application/json")
	assert.ErrorIs(t, err, domain.ErrMalformedPayload)
}

func TestProcess_MissingIdentifiers(t *testing.T) {
	f := newFixture(t, queuedomain.TypeSelfOrganized)

	_, err := f.svc.Process(context.Background(), `{"userId":"42"}`, "application/json", "application/json")
	assert.ErrorIs(t, err, domain.ErrInvalidRecord)

	_, err = f.svc.Process(context.Background(), fmt.Sprintf(`{"queueId":"%s"}`, f.queueID), "application/json", "application/json")
	assert.ErrorIs(t, err, domain.ErrInvalidRecord)
}

func TestProcess_EntryValidationPropagates(t *testing.T) {
	f := newFixture(t, queuedomain.TypeOrganizational)

	// Organizational queues require the schedule fields.
	payload := fmt.Sprintf(`{"queueId":"%s","userId":"%s"}`, f.queueID, f.userID)
	_, err := f.svc.Process(context.Background(), payload, "application/json", "application/json")
	assert.ErrorIs(t, err, entrydomain.ErrDateTimeRequired)
}
