package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/qline-io/qline/internal/auth/domain"
	authrepo "github.com/qline-io/qline/internal/auth/repository"
	"github.com/qline-io/qline/internal/entry/domain"
	entryrepo "github.com/qline-io/qline/internal/entry/repository"
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
	journal journaldomain.Repository
	queues  queuedomain.Repository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&authdomain.User{},
		&queuedomain.Queue{},
		&queuedomain.Administrator{},
		&domain.Entry{},
		&journaldomain.Record{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zap.NewNop()
	journalRepo := journalrepo.NewRepository(conn)
	queueRepo := queuerepo.NewRepository(conn)
	svc := NewService(
		conn,
		log,
		node,
		entryrepo.NewRepository(conn),
		queueRepo,
		authrepo.NewRepository(conn),
		journalservice.NewService(log, node, journalRepo),
	)

	return &fixture{db: conn, node: node, svc: svc, journal: journalRepo, queues: queueRepo}
}

func (f *fixture) createUser(t *testing.T) snowflake.ID {
	t.Helper()
	id := f.node.Generate()
	require.NoError(t, f.db.Create(&authdomain.User{
		ID:    id,
		Email: id.String() + "@example.com",
	}).Error)
	return id
}

func (f *fixture) createQueue(t *testing.T, ownerID snowflake.ID, queueType queuedomain.Type) snowflake.ID {
	t.Helper()
	id := f.node.Generate()
	queue := queuedomain.Queue{
		ID:         id,
		OwnerID:    ownerID,
		Name:       "queue-" + id.String(),
		Type:       queueType,
		Visibility: queuedomain.VisibilityPublic,
	}
	require.NoError(t, f.db.Create(&queue).Error)
	require.NoError(t, f.db.Create(&queuedomain.Administrator{
		ID:      f.node.Generate(),
		QueueID: id,
		UserID:  ownerID,
	}).Error)
	return id
}

func TestCreate_OrganizationalRequiresSchedule(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t)
	queueID := f.createQueue(t, user, queuedomain.TypeOrganizational)

	_, err := f.svc.Create(ctx, user, domain.CreateRequest{QueueID: queueID})
	assert.ErrorIs(t, err, domain.ErrDateTimeRequired)

	_, err = f.svc.Create(ctx, user, domain.CreateRequest{
		QueueID: queueID,
		Date:    "2026-04-01",
		Time:    "25:99",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDateTime)
}

func TestCreate_OrganizationalHappyPath(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t)
	queueID := f.createQueue(t, user, queuedomain.TypeOrganizational)

	minutes := 15
	entry, err := f.svc.Create(ctx, user, domain.CreateRequest{
		QueueID:             queueID,
		Date:                "2026-04-01",
		Time:                "09:30",
		NotificationMinutes: &minutes,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusWaiting, entry.Status)
	require.NotNil(t, entry.EntryTimeOrg)
	assert.Equal(t, "2026-04-01 09:30", entry.EntryTimeOrg.Format("2006-01-02 15:04"))
	assert.Nil(t, entry.EntryPositionSelf)
	assert.Nil(t, entry.SequentialNumberSelf)

	records, err := f.journal.ListByEntry(ctx, entry.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, journaldomain.ActionJoined, records[0].Action)
	require.NotNil(t, records[0].NewStatus)
	assert.Equal(t, journaldomain.Status("waiting"), *records[0].NewStatus)
}

func TestCreate_OrganizationalDuplicateSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t)
	queueID := f.createQueue(t, user, queuedomain.TypeOrganizational)

	req := domain.CreateRequest{QueueID: queueID, Date: "2026-04-01", Time: "09:30"}
	_, err := f.svc.Create(ctx, user, req)
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, user, req)
	assert.ErrorIs(t, err, domain.ErrDuplicateEntry)

	// A different slot for the same user is fine.
	_, err = f.svc.Create(ctx, user, domain.CreateRequest{QueueID: queueID, Date: "2026-04-01", Time: "10:00"})
	assert.NoError(t, err)
}

func TestCreate_OrganizationalForbidsPositionNotification(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t)
	queueID := f.createQueue(t, user, queuedomain.TypeOrganizational)

	position := 2
	_, err := f.svc.Create(context.Background(), user, domain.CreateRequest{
		QueueID:              queueID,
		Date:                 "2026-04-01",
		Time:                 "09:30",
		NotificationPosition: &position,
	})
	assert.ErrorIs(t, err, domain.ErrFieldNotAllowed)
}

func TestCreate_SelfOrganizedForbidsSchedule(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t)
	queueID := f.createQueue(t, user, queuedomain.TypeSelfOrganized)

	_, err := f.svc.Create(context.Background(), user, domain.CreateRequest{
		QueueID: queueID,
		Date:    "2026-04-01",
		Time:    "09:30",
	})
	assert.ErrorIs(t, err, domain.ErrFieldNotAllowed)

	minutes := 10
	_, err = f.svc.Create(context.Background(), user, domain.CreateRequest{
		QueueID:             queueID,
		NotificationMinutes: &minutes,
	})
	assert.ErrorIs(t, err, domain.ErrFieldNotAllowed)
}

func TestCreate_SelfOrganizedAssignsPositions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t)
	queueID := f.createQueue(t, owner, queuedomain.TypeSelfOrganized)

	first, err := f.svc.Create(ctx, f.createUser(t), domain.CreateRequest{QueueID: queueID})
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, f.createUser(t), domain.CreateRequest{QueueID: queueID})
	require.NoError(t, err)

	require.NotNil(t, first.EntryPositionSelf)
	require.NotNil(t, second.EntryPositionSelf)
	assert.Equal(t, 1, *first.EntryPositionSelf)
	assert.Equal(t, 2, *second.EntryPositionSelf)
	assert.Equal(t, 1, *first.SequentialNumberSelf)
	assert.Equal(t, 2, *second.SequentialNumberSelf)
}

func TestCreate_SequentialNumberNotReusedAfterRemoval(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t)
	queueID := f.createQueue(t, owner, queuedomain.TypeSelfOrganized)

	member := f.createUser(t)
	entry, err := f.svc.Create(ctx, member, domain.CreateRequest{QueueID: queueID})
	require.NoError(t, err)
	require.NoError(t, f.svc.Remove(ctx, member, entry.ID))

	next, err := f.svc.Create(ctx, f.createUser(t), domain.CreateRequest{QueueID: queueID})
	require.NoError(t, err)
	assert.Equal(t, 1, *next.EntryPositionSelf, "waiting count restarts")
	assert.Equal(t, 2, *next.SequentialNumberSelf, "sequential numbers never restart")
}

func TestCreate_OnBehalfRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t)
	queueID := f.createQueue(t, owner, queuedomain.TypeSelfOrganized)
	member := f.createUser(t)
	stranger := f.createUser(t)

	_, err := f.svc.Create(ctx, stranger, domain.CreateRequest{QueueID: queueID, UserID: member})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	entry, err := f.svc.Create(ctx, owner, domain.CreateRequest{QueueID: queueID, UserID: member})
	require.NoError(t, err)
	assert.Equal(t, member, entry.UserID)

	records, err := f.journal.ListByEntry(ctx, entry.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, journaldomain.ActionAdminAdded, records[0].Action)
	assert.Equal(t, owner, records[0].InitiatedBy)
}

func TestCreate_UnknownUserOrQueue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t)
	queueID := f.createQueue(t, user, queuedomain.TypeSelfOrganized)

	_, err := f.svc.Create(ctx, user, domain.CreateRequest{QueueID: f.node.Generate()})
	assert.ErrorIs(t, err, queuedomain.ErrNotFound)

	_, err = f.svc.Create(ctx, user, domain.CreateRequest{QueueID: queueID, UserID: f.node.Generate()})
	assert.ErrorIs(t, err, authdomain.ErrUserNotFound)
}

func TestUpdateStatus_FullServiceFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t)
	queueID := f.createQueue(t, owner, queuedomain.TypeSelfOrganized)
	member := f.createUser(t)

	entry, err := f.svc.Create(ctx, member, domain.CreateRequest{QueueID: queueID})
	require.NoError(t, err)

	serving, err := f.svc.UpdateStatus(ctx, owner, entry.ID, domain.StatusServing, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusServing, serving.Status)

	done, err := f.svc.UpdateStatus(ctx, owner, entry.ID, domain.StatusCompleted, "all set")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, done.Status)

	records, err := f.journal.ListByEntry(ctx, entry.ID)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, journaldomain.ActionJoined, records[0].Action)
	assert.Equal(t, journaldomain.ActionStartedServing, records[1].Action)
	assert.Equal(t, journaldomain.ActionCompletedService, records[2].Action)
	assert.Equal(t, "all set", records[2].Comment)
	require.NotNil(t, records[2].PrevStatus)
	assert.Equal(t, journaldomain.Status("serving"), *records[2].PrevStatus)
}

func TestUpdateStatus_NoOpWritesNoJournal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	member := f.createUser(t)
	queueID := f.createQueue(t, member, queuedomain.TypeSelfOrganized)

	entry, err := f.svc.Create(ctx, member, domain.CreateRequest{QueueID: queueID})
	require.NoError(t, err)

	same, err := f.svc.UpdateStatus(ctx, member, entry.ID, domain.StatusWaiting, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusWaiting, same.Status)

	records, err := f.journal.ListByEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestUpdateStatus_MemberCannotServe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t)
	queueID := f.createQueue(t, owner, queuedomain.TypeSelfOrganized)
	member := f.createUser(t)

	entry, err := f.svc.Create(ctx, member, domain.CreateRequest{QueueID: queueID})
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, member, entry.ID, domain.StatusServing, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// The denied attempt leaves no trace in the journal.
	records, err := f.journal.ListByEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestUpdateStatus_OwnerCannotCancelOnceServing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t)
	queueID := f.createQueue(t, owner, queuedomain.TypeSelfOrganized)
	member := f.createUser(t)

	entry, err := f.svc.Create(ctx, member, domain.CreateRequest{QueueID: queueID})
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, owner, entry.ID, domain.StatusServing, "")
	require.NoError(t, err)

	// Once serving, only an admin may cancel.
	_, err = f.svc.UpdateStatus(ctx, member, entry.ID, domain.StatusCanceled, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.UpdateStatus(ctx, owner, entry.ID, domain.StatusCanceled, "")
	assert.NoError(t, err)
}

func TestRemove_JournalOutlivesEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t)
	queueID := f.createQueue(t, owner, queuedomain.TypeSelfOrganized)
	member := f.createUser(t)

	entry, err := f.svc.Create(ctx, member, domain.CreateRequest{QueueID: queueID})
	require.NoError(t, err)

	require.NoError(t, f.svc.Remove(ctx, owner, entry.ID))

	_, err = f.svc.FindOne(ctx, entry.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	records, err := f.journal.ListByEntry(ctx, entry.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, journaldomain.ActionAdminRemoved, records[1].Action)
	require.NotNil(t, records[1].PrevStatus)
	assert.Equal(t, journaldomain.Status("waiting"), *records[1].PrevStatus)
	assert.Equal(t, journaldomain.StatusRemoved, *records[1].NewStatus)
}

func TestRemove_OwnerPrecedesAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t)
	queueID := f.createQueue(t, owner, queuedomain.TypeSelfOrganized)

	// The owner is also the queue admin; their own removal journals as a
	// plain removal.
	entry, err := f.svc.Create(ctx, owner, domain.CreateRequest{QueueID: queueID})
	require.NoError(t, err)
	require.NoError(t, f.svc.Remove(ctx, owner, entry.ID))

	records, err := f.journal.ListByEntry(ctx, entry.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, journaldomain.ActionRemoved, records[1].Action)
}

func TestPositionAndNext(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t)
	queueID := f.createQueue(t, owner, queuedomain.TypeSelfOrganized)

	first, err := f.svc.Create(ctx, f.createUser(t), domain.CreateRequest{QueueID: queueID})
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, f.createUser(t), domain.CreateRequest{QueueID: queueID})
	require.NoError(t, err)

	pos, err := f.svc.Position(ctx, queueID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, pos)

	next, err := f.svc.NextInQueue(ctx, queueID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, next.ID)

	// Serving the head promotes the second entry.
	_, err = f.svc.UpdateStatus(ctx, owner, first.ID, domain.StatusServing, "")
	require.NoError(t, err)

	pos, err = f.svc.Position(ctx, queueID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, pos)

	next, err = f.svc.NextInQueue(ctx, queueID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, next.ID)

	// Non-waiting entries have no position.
	pos, err = f.svc.Position(ctx, queueID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, pos)
}

func TestNextInQueue_EmptyQueue(t *testing.T) {
	f := newFixture(t)
	owner := f.createUser(t)
	queueID := f.createQueue(t, owner, queuedomain.TypeSelfOrganized)

	_, err := f.svc.NextInQueue(context.Background(), queueID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_NotificationFieldsPerQueueType(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t)

	orgQueue := f.createQueue(t, user, queuedomain.TypeOrganizational)
	orgEntry, err := f.svc.Create(ctx, user, domain.CreateRequest{
		QueueID: orgQueue,
		Date:    "2026-04-01",
		Time:    "09:30",
	})
	require.NoError(t, err)

	minutes := 30
	updated, err := f.svc.Update(ctx, user, orgEntry.ID, domain.UpdateRequest{NotificationMinutes: &minutes})
	require.NoError(t, err)
	require.NotNil(t, updated.NotificationMinutes)
	assert.Equal(t, 30, *updated.NotificationMinutes)

	position := 3
	_, err = f.svc.Update(ctx, user, orgEntry.ID, domain.UpdateRequest{NotificationPosition: &position})
	assert.ErrorIs(t, err, domain.ErrFieldNotAllowed)

	selfQueue := f.createQueue(t, user, queuedomain.TypeSelfOrganized)
	selfEntry, err := f.svc.Create(ctx, user, domain.CreateRequest{QueueID: selfQueue})
	require.NoError(t, err)

	updated, err = f.svc.Update(ctx, user, selfEntry.ID, domain.UpdateRequest{NotificationPosition: &position})
	require.NoError(t, err)
	require.NotNil(t, updated.NotificationPosition)
	assert.Equal(t, 3, *updated.NotificationPosition)

	_, err = f.svc.Update(ctx, user, selfEntry.ID, domain.UpdateRequest{NotificationMinutes: &minutes})
	assert.ErrorIs(t, err, domain.ErrFieldNotAllowed)
}
