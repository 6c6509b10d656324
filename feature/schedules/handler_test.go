package schedules

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T, runner Runner) (*fiber.App, *Service) {
	app := fiber.New()
	svc, _ := newTestService(t, runner)
	NewHandler(svc).RegisterRoutes(app)
	return app, svc
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

const taskBody = `{
	"name": "hourly orders",
	"request": {"source": {"connection_id": "src", "table": "orders"}, "target": {"connection_id": "dst", "table": "orders"}},
	"schedule_type": "cron",
	"schedule_value": "0 * * * *"
}`

func TestHandleCreateListAndGet(t *testing.T) {
	app, _ := setupTestApp(t, &fakeRunner{})

	status, body := do(t, app, "POST", "/schedules", taskBody)
	require.Equal(t, fiber.StatusCreated, status, string(body))

	var created Task
	require.NoError(t, json.Unmarshal(body, &created))
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.Active)
	assert.Equal(t, "orders", created.Request.Target.Table)
	require.NotNil(t, created.NextRunAt)
	assert.Equal(t, epoch.Add(time.Hour), created.NextRunAt.UTC())

	status, body = do(t, app, "GET", "/schedules", "")
	require.Equal(t, fiber.StatusOK, status)
	var list []Task
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "hourly orders", list[0].Name)

	status, _ = do(t, app, "GET", "/schedules/"+created.ID, "")
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = do(t, app, "GET", "/schedules/nope", "")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestHandleCreateInvalid(t *testing.T) {
	app, _ := setupTestApp(t, &fakeRunner{})

	body := strings.Replace(taskBody, `"0 * * * *"`, `"every hour"`, 1)
	status, data := do(t, app, "POST", "/schedules", body)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, string(data), "cron expression")

	status, _ = do(t, app, "POST", "/schedules", "{")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestHandleRun(t *testing.T) {
	runner := &fakeRunner{
		run:     completed("run-1", 0),
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	app, svc := setupTestApp(t, runner)

	status, body := do(t, app, "POST", "/schedules", taskBody)
	require.Equal(t, fiber.StatusCreated, status, string(body))
	var created Task
	require.NoError(t, json.Unmarshal(body, &created))

	status, body = do(t, app, "POST", "/schedules/"+created.ID+"/run", "")
	require.Equal(t, fiber.StatusAccepted, status, string(body))
	<-runner.started

	status, _ = do(t, app, "POST", "/schedules/"+created.ID+"/run", "")
	assert.Equal(t, fiber.StatusConflict, status)

	close(runner.release)
	require.NoError(t, svc.Stop(context.Background()))

	status, body = do(t, app, "GET", "/schedules/"+created.ID, "")
	require.Equal(t, fiber.StatusOK, status)
	var got Task
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, StatusSuccess, got.LastRunStatus)
	assert.Equal(t, 1, got.TotalRuns)
}

func TestHandleUpdateAndDelete(t *testing.T) {
	app, _ := setupTestApp(t, &fakeRunner{})

	status, body := do(t, app, "POST", "/schedules", taskBody)
	require.Equal(t, fiber.StatusCreated, status, string(body))
	var created Task
	require.NoError(t, json.Unmarshal(body, &created))

	update := strings.Replace(taskBody, `"schedule_type": "cron"`, `"schedule_type": "preset", "active": false`, 1)
	update = strings.Replace(update, `"0 * * * *"`, `"6hours"`, 1)
	status, body = do(t, app, "PUT", "/schedules/"+created.ID, update)
	require.Equal(t, fiber.StatusOK, status, string(body))
	var updated Task
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.False(t, updated.Active)
	assert.Equal(t, "6hours", updated.ScheduleValue)

	status, _ = do(t, app, "DELETE", "/schedules/"+created.ID, "")
	assert.Equal(t, fiber.StatusNoContent, status)
	status, _ = do(t, app, "DELETE", "/schedules/"+created.ID, "")
	assert.Equal(t, fiber.StatusNotFound, status)
}
