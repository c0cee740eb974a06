package echoapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/masomo/apps/api/echo"
	"github.com/trezcool/masomo/core"
	"github.com/trezcool/masomo/core/feedback"
	emailsvc "github.com/trezcool/masomo/services/email"
	inmemdb "github.com/trezcool/masomo/storage/database/inmem"
	"github.com/trezcool/masomo/tests"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testApp struct {
	server  *echoapi.Server
	conf    *core.Config
	repo    feedback.Repository
	mailSvc *emailsvc.ConsoleServiceMock
}

func setup(t *testing.T, configure ...func(conf *core.Config)) testApp {
	t.Helper()
	conf := *testutil.Config()
	conf.Server.DisableReqLogs = true
	for _, fn := range configure {
		fn(&conf)
	}

	testutil.ParseTemplates()
	validate, translator := testutil.Validator()
	repo := inmemdb.NewFeedbackRepository(inmemdb.Open())
	mailSvc := emailsvc.NewConsoleServiceMock(&conf, testutil.Logger())

	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:        &conf,
		Logger:      testutil.Logger(),
		FeedbackSvc: feedback.NewService(repo, mailSvc, testutil.Logger()),
		Validate:    validate,
		Translator:  translator,
	})
	return testApp{server: server, conf: &conf, repo: repo, mailSvc: mailSvc}
}

func (app testApp) token(t *testing.T, graderID string, roles ...string) string {
	t.Helper()
	token, err := echoapi.GenerateToken(app.conf, echoapi.Grader{
		ID:    graderID,
		Name:  "Grader " + graderID,
		Email: graderID + "@test.cd",
		Roles: roles,
	})
	require.NoError(t, err)
	return token
}

func (app testApp) do(method, path, token string, data ...[]byte) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(method, path, token, data...)
	app.server.ServeHTTP(rec, req)
	return rec
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, app testApp, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			checkCodeAndData(t, tt, app.do(method, tt.path, tt.token, tt.body))
		})
	}
}
