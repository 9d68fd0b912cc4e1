package service_test

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/employee-service/internal/audit"
	"github.com/spec-kit/employee-service/internal/config"
	"github.com/spec-kit/employee-service/internal/events"
	"github.com/spec-kit/employee-service/internal/repository"
	"github.com/spec-kit/employee-service/internal/service"
)

func TestAuditServiceRecordsEmployeeLifecycle(t *testing.T) {
	log, err := audit.Open(t.TempDir())
	require.NoError(t, err)
	defer log.Close()

	core, logs := observer.New(zap.DebugLevel)
	dispatcher := events.NewInMemoryDispatcher()
	service.NewAuditService(dispatcher, log, zap.New(core), config.AuditConfig{WebhookURL: "http://hooks.local/employees"}).RegisterHandlers()

	svc := service.NewEmployeeService(service.EmployeeDependencies{
		EmployeeRepo: repository.NewMemoryEmployeeRepository(),
		Dispatcher:   dispatcher,
	})
	ctx := context.Background()

	created, err := svc.CreateEmployee(ctx, johnDoeInput())
	require.NoError(t, err)
	input := johnDoeInput()
	input.Position = "Staff Engineer"
	require.NoError(t, svc.UpdateEmployee(ctx, created.ID, input))
	require.NoError(t, svc.DeleteEmployee(ctx, created.ID))

	var types []events.EventType
	it := log.Iterator()
	for {
		entry, err := it.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		assert.Equal(t, created.ID, entry.Event.EmployeeID)
		types = append(types, entry.Event.Type)
	}
	assert.Equal(t, []events.EventType{
		events.EventEmployeeCreated,
		events.EventEmployeeUpdated,
		events.EventEmployeeDeleted,
	}, types)

	assert.Equal(t, 3, logs.FilterMessage("employee changed").Len())
	assert.Equal(t, 3, logs.FilterMessage("sendWebhookNotificationStub").Len())
}

func TestAuditServiceWithoutRecorder(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher()
	service.NewAuditService(dispatcher, nil, zap.New(core), config.AuditConfig{}).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.NewEvent(events.EventEmployeeDeleted, 5, events.Actor{Subject: "admin@example.com"}, nil))
	require.NoError(t, err)

	entries := logs.FilterMessage("employee changed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "admin@example.com", entries[0].ContextMap()["actor"])
}
