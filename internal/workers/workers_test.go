package workers_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/wms-ledger/internal/adapters/storage"
	"github.com/ammerola/wms-ledger/internal/core/domain"
	"github.com/ammerola/wms-ledger/internal/tasks"
	"github.com/ammerola/wms-ledger/internal/workers"
	"github.com/ammerola/wms-ledger/test/helpers"
	"github.com/ammerola/wms-ledger/test/mocks"
)

type recordingInvalidator struct {
	products []uuid.UUID
	err      error
}

func (r *recordingInvalidator) InvalidateProducts(_ context.Context, ids ...uuid.UUID) error {
	r.products = append(r.products, ids...)
	return r.err
}

func movementTask(t *testing.T, p tasks.MovementRecordedPayload) *asynq.Task {
	t.Helper()
	task, err := tasks.NewMovementRecordedTask(p)
	require.NoError(t, err)
	return task
}

func TestMovementProcessor_ProcessMovementRecorded(t *testing.T) {
	packageID := uuid.New()
	productID := uuid.New()
	payload := tasks.MovementRecordedPayload{
		TransactionID: uuid.New(),
		Sequence:      42,
		Type:          domain.TransactionOutbound,
		PackageID:     packageID,
		ProductID:     productID,
		Quantity:      4,
	}

	tests := []struct {
		name          string
		task          func(t *testing.T) *asynq.Task
		invalidateErr error
		setupMocks    func(m *mocks.MockPackageRepository)
		expectError   bool
		skipRetry     bool
		invalidated   bool
	}{
		{
			name: "balanced_package",
			task: func(t *testing.T) *asynq.Task { return movementTask(t, payload) },
			setupMocks: func(m *mocks.MockPackageRepository) {
				m.EXPECT().CheckConservation(gomock.Any(), packageID).
					Return(&domain.Conservation{PackageID: packageID, Original: 10, Placed: 6, Deducted: 4}, nil)
			},
			invalidated: true,
		},
		{
			name: "unbalanced_package_fails",
			task: func(t *testing.T) *asynq.Task { return movementTask(t, payload) },
			setupMocks: func(m *mocks.MockPackageRepository) {
				m.EXPECT().CheckConservation(gomock.Any(), packageID).
					Return(&domain.Conservation{PackageID: packageID, Original: 10, Placed: 6, Deducted: 6}, nil)
			},
			expectError: true,
			invalidated: true,
		},
		{
			name:          "cache_failure_does_not_fail_task",
			task:          func(t *testing.T) *asynq.Task { return movementTask(t, payload) },
			invalidateErr: errors.New("redis down"),
			setupMocks: func(m *mocks.MockPackageRepository) {
				m.EXPECT().CheckConservation(gomock.Any(), packageID).
					Return(&domain.Conservation{PackageID: packageID, Original: 10, Placed: 10}, nil)
			},
			invalidated: true,
		},
		{
			name: "store_failure_is_retried",
			task: func(t *testing.T) *asynq.Task { return movementTask(t, payload) },
			setupMocks: func(m *mocks.MockPackageRepository) {
				m.EXPECT().CheckConservation(gomock.Any(), packageID).Return(nil, errors.New("conn reset"))
			},
			expectError: true,
			invalidated: true,
		},
		{
			name: "malformed_payload_skips_retry",
			task: func(t *testing.T) *asynq.Task {
				return asynq.NewTask(tasks.TypeMovementRecorded, []byte(`{"package_id":`))
			},
			setupMocks:  func(m *mocks.MockPackageRepository) {},
			expectError: true,
			skipRetry:   true,
		},
		{
			name: "missing_package_skips_retry",
			task: func(t *testing.T) *asynq.Task {
				return movementTask(t, tasks.MovementRecordedPayload{TransactionID: uuid.New()})
			},
			setupMocks:  func(m *mocks.MockPackageRepository) {},
			expectError: true,
			skipRetry:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			packages := mocks.NewMockPackageRepository(ctrl)
			tt.setupMocks(packages)
			invalidator := &recordingInvalidator{err: tt.invalidateErr}

			p := workers.NewMovementProcessor(packages, invalidator, helpers.TestLogger())
			err := p.ProcessMovementRecorded(context.Background(), tt.task(t))

			if tt.expectError {
				require.Error(t, err)
				assert.Equal(t, tt.skipRetry, errors.Is(err, asynq.SkipRetry))
			} else {
				require.NoError(t, err)
			}
			if tt.invalidated {
				assert.Equal(t, []uuid.UUID{productID}, invalidator.products)
			} else {
				assert.Empty(t, invalidator.products)
			}
		})
	}
}

func TestAuditProcessor_ProcessConservationAudit(t *testing.T) {
	auditTask := func(t *testing.T, limit int) *asynq.Task {
		task, err := tasks.NewConservationAuditTask(limit)
		require.NoError(t, err)
		return task
	}

	tests := []struct {
		name        string
		task        func(t *testing.T) *asynq.Task
		setupMocks  func(m *mocks.MockPackageRepository)
		expectError bool
		skipRetry   bool
	}{
		{
			name: "no_violations",
			task: func(t *testing.T) *asynq.Task { return auditTask(t, 0) },
			setupMocks: func(m *mocks.MockPackageRepository) {
				m.EXPECT().FindConservationViolations(gomock.Any(), 250).Return(nil, nil)
			},
		},
		{
			name: "task_limit_overrides_default",
			task: func(t *testing.T) *asynq.Task { return auditTask(t, 10) },
			setupMocks: func(m *mocks.MockPackageRepository) {
				m.EXPECT().FindConservationViolations(gomock.Any(), 10).Return([]domain.Conservation{}, nil)
			},
		},
		{
			name: "violations_fail_without_retry",
			task: func(t *testing.T) *asynq.Task { return auditTask(t, 0) },
			setupMocks: func(m *mocks.MockPackageRepository) {
				m.EXPECT().FindConservationViolations(gomock.Any(), 250).Return([]domain.Conservation{
					{PackageID: uuid.New(), Original: 10, Placed: 7, Deducted: 4},
					{PackageID: uuid.New(), Original: 5, Placed: 0, Deducted: 4},
				}, nil)
			},
			expectError: true,
			skipRetry:   true,
		},
		{
			name: "scan_failure_is_retried",
			task: func(t *testing.T) *asynq.Task { return auditTask(t, 0) },
			setupMocks: func(m *mocks.MockPackageRepository) {
				m.EXPECT().FindConservationViolations(gomock.Any(), 250).Return(nil, errors.New("timeout"))
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			packages := mocks.NewMockPackageRepository(ctrl)
			tt.setupMocks(packages)

			p := workers.NewAuditProcessor(packages, 250, helpers.TestLogger())
			err := p.ProcessConservationAudit(context.Background(), tt.task(t))

			if tt.expectError {
				require.Error(t, err)
				assert.Equal(t, tt.skipRetry, errors.Is(err, asynq.SkipRetry))
				return
			}
			require.NoError(t, err)
		})
	}
}

func journalEntries(day time.Time) []domain.JournalEntry {
	dest := uuid.New()
	return []domain.JournalEntry{
		{
			Transaction: domain.Transaction{
				ID: uuid.New(), Sequence: 1, Type: domain.TransactionInternalTransfer,
				PackageID: uuid.New(), Quantity: 6, SourceShelfID: uuid.New(),
				DestinationShelfID: &dest, ActingUserID: uuid.New(), CommittedAt: day.Add(9 * time.Hour),
			},
			ProductID: uuid.New(), SourceLocation: "A/01", DestinationLabel: "A/02", ActingUserName: "Dana Operator",
		},
		{
			Transaction: domain.Transaction{
				ID: uuid.New(), Sequence: 2, Type: domain.TransactionOutbound,
				PackageID: uuid.New(), Quantity: 4, SourceShelfID: uuid.New(),
				ActingUserID: uuid.New(), CommittedAt: day.Add(15 * time.Hour),
			},
			ProductID: uuid.New(), SourceLocation: "B/01", ActingUserName: "Dana Operator",
		},
	}
}

func TestArchiveProcessor_WritesWorkbook(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	journal := mocks.NewMockTransactionRepository(ctrl)

	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	now := day.Add(26 * time.Hour)
	entries := journalEntries(day)

	journal.EXPECT().ListJournal(gomock.Any(), day, day.AddDate(0, 0, 1)).Return(entries, nil)

	dir := t.TempDir()
	store := storage.NewLocalStorage(dir, helpers.TestLogger())
	p := workers.NewArchiveProcessor(journal, store, helpers.TestLogger()).
		WithClock(func() time.Time { return now })

	task, err := tasks.NewJournalArchiveTask(time.Time{})
	require.NoError(t, err)
	require.NoError(t, p.ProcessJournalArchive(ctx, task))

	path := filepath.Join(dir, "journal", "2026", "03", "14.xlsx")
	require.FileExists(t, path)

	wb, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	sheet, ok := wb.Sheet["journal"]
	require.True(t, ok)
	assert.Equal(t, 3, sheet.MaxRow)

	header, err := sheet.Cell(0, 0)
	require.NoError(t, err)
	assert.Equal(t, "Sequence", header.Value)

	dest, err := sheet.Cell(1, 8)
	require.NoError(t, err)
	assert.Equal(t, "A/02", dest.Value)

	qty, err := sheet.Cell(2, 6)
	require.NoError(t, err)
	assert.Equal(t, "4", qty.Value)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestArchiveProcessor_Paths(t *testing.T) {
	day := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	explicitTask := func(t *testing.T) *asynq.Task {
		task, err := tasks.NewJournalArchiveTask(day)
		require.NoError(t, err)
		return task
	}

	tests := []struct {
		name        string
		task        func(t *testing.T) *asynq.Task
		setupMocks  func(j *mocks.MockTransactionRepository, s *mocks.MockArchiveStorage)
		expectError bool
		skipRetry   bool
	}{
		{
			name: "already_archived_is_skipped",
			task: explicitTask,
			setupMocks: func(j *mocks.MockTransactionRepository, s *mocks.MockArchiveStorage) {
				s.EXPECT().Exists(gomock.Any(), "journal/2026/01/02.xlsx").Return(true, nil)
			},
		},
		{
			name: "empty_day_still_archived",
			task: explicitTask,
			setupMocks: func(j *mocks.MockTransactionRepository, s *mocks.MockArchiveStorage) {
				s.EXPECT().Exists(gomock.Any(), "journal/2026/01/02.xlsx").Return(false, nil)
				j.EXPECT().ListJournal(gomock.Any(), day, day.AddDate(0, 0, 1)).Return(nil, nil)
				s.EXPECT().Upload(gomock.Any(), "journal/2026/01/02.xlsx", gomock.Any(),
					"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet").
					DoAndReturn(func(_ context.Context, key string, body io.Reader, _ string) (string, error) {
						b, err := io.ReadAll(body)
						require.NoError(t, err)
						assert.NotEmpty(t, b)
						return "s3://archive/" + key, nil
					})
			},
		},
		{
			name: "exists_check_failure",
			task: explicitTask,
			setupMocks: func(j *mocks.MockTransactionRepository, s *mocks.MockArchiveStorage) {
				s.EXPECT().Exists(gomock.Any(), gomock.Any()).Return(false, errors.New("access denied"))
			},
			expectError: true,
		},
		{
			name: "journal_failure",
			task: explicitTask,
			setupMocks: func(j *mocks.MockTransactionRepository, s *mocks.MockArchiveStorage) {
				s.EXPECT().Exists(gomock.Any(), gomock.Any()).Return(false, nil)
				j.EXPECT().ListJournal(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))
			},
			expectError: true,
		},
		{
			name: "upload_failure",
			task: explicitTask,
			setupMocks: func(j *mocks.MockTransactionRepository, s *mocks.MockArchiveStorage) {
				s.EXPECT().Exists(gomock.Any(), gomock.Any()).Return(false, nil)
				j.EXPECT().ListJournal(gomock.Any(), gomock.Any(), gomock.Any()).Return(journalEntries(day), nil)
				s.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return("", errors.New("bucket gone"))
			},
			expectError: true,
		},
		{
			name: "open_day_is_not_archived",
			task: func(t *testing.T) *asynq.Task {
				task, err := tasks.NewJournalArchiveTask(time.Now().UTC())
				require.NoError(t, err)
				return task
			},
			setupMocks:  func(j *mocks.MockTransactionRepository, s *mocks.MockArchiveStorage) {},
			expectError: true,
			skipRetry:   true,
		},
		{
			name: "invalid_day_skips_retry",
			task: func(t *testing.T) *asynq.Task {
				b, err := json.Marshal(tasks.JournalArchivePayload{Day: "14/03/2026"})
				require.NoError(t, err)
				return asynq.NewTask(tasks.TypeJournalArchive, b)
			},
			setupMocks:  func(j *mocks.MockTransactionRepository, s *mocks.MockArchiveStorage) {},
			expectError: true,
			skipRetry:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			journal := mocks.NewMockTransactionRepository(ctrl)
			store := mocks.NewMockArchiveStorage(ctrl)
			tt.setupMocks(journal, store)

			p := workers.NewArchiveProcessor(journal, store, helpers.TestLogger())
			err := p.ProcessJournalArchive(context.Background(), tt.task(t))

			if tt.expectError {
				require.Error(t, err)
				assert.Equal(t, tt.skipRetry, errors.Is(err, asynq.SkipRetry))
				return
			}
			require.NoError(t, err)
		})
	}
}

type stubRegistrar struct {
	specs []string
	types []string
	err   error
}

func (s *stubRegistrar) Register(cronspec string, task *asynq.Task, _ ...asynq.Option) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.specs = append(s.specs, cronspec)
	s.types = append(s.types, task.Type())
	return uuid.NewString(), nil
}

func TestRegisterSchedules(t *testing.T) {
	t.Run("registers_both", func(t *testing.T) {
		r := &stubRegistrar{}
		err := workers.RegisterSchedules(r, workers.ScheduleConfig{
			AuditCron: "*/15 * * * *", AuditLimit: 100, ArchiveCron: "10 0 * * *",
		}, helpers.TestLogger())
		require.NoError(t, err)
		assert.Equal(t, []string{"*/15 * * * *", "10 0 * * *"}, r.specs)
		assert.Equal(t, []string{tasks.TypeConservationAudit, tasks.TypeJournalArchive}, r.types)
	})

	t.Run("empty_spec_disables", func(t *testing.T) {
		r := &stubRegistrar{}
		require.NoError(t, workers.RegisterSchedules(r, workers.ScheduleConfig{ArchiveCron: "0 1 * * *"}, helpers.TestLogger()))
		assert.Equal(t, []string{tasks.TypeJournalArchive}, r.types)
	})

	t.Run("register_failure", func(t *testing.T) {
		r := &stubRegistrar{err: errors.New("bad cron")}
		err := workers.RegisterSchedules(r, workers.ScheduleConfig{AuditCron: "nope"}, helpers.TestLogger())
		assert.ErrorContains(t, err, "conservation audit")
	})
}

func TestRetryDelay(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		expected time.Duration
	}{
		{name: "first_retry", n: 0, expected: time.Second},
		{name: "third_retry", n: 3, expected: 8 * time.Second},
		{name: "capped", n: 12, expected: 10 * time.Minute},
		{name: "huge_n_capped", n: 64, expected: 10 * time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, workers.RetryDelay(tt.n, nil, nil))
		})
	}
}

func TestProcessors_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	packages := mocks.NewMockPackageRepository(ctrl)
	packages.EXPECT().FindConservationViolations(gomock.Any(), 5).Return(nil, nil)

	procs := &workers.Processors{
		Movement: workers.NewMovementProcessor(packages, &recordingInvalidator{}, helpers.TestLogger()),
		Audit:    workers.NewAuditProcessor(packages, 5, helpers.TestLogger()),
		Archive:  workers.NewArchiveProcessor(mocks.NewMockTransactionRepository(ctrl), mocks.NewMockArchiveStorage(ctrl), helpers.TestLogger()),
	}
	mux := asynq.NewServeMux()
	procs.Register(mux)

	task, err := tasks.NewConservationAuditTask(0)
	require.NoError(t, err)
	require.NoError(t, mux.ProcessTask(context.Background(), task))
}
