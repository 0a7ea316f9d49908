package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimator/testhelpers"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app *pocketbase.PocketBase, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

// seedTestService creates a catalog service priced 4000-12000 with two
// variation factors, returning its record.
func seedTestService(t *testing.T, app *pocketbase.PocketBase, slug string) *core.Record {
	t.Helper()
	svc := testhelpers.CreateTestCatalogService(t, app, slug, 4000, 12000)
	testhelpers.CreateTestServiceFactor(t, app, svc.Id, "screens", 3, 30, 10)
	testhelpers.CreateTestServiceFactor(t, app, svc.Id, "integrations", 0, 8, 2)
	return svc
}
