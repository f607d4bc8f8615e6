package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/mergington/internal/adapters/http/api"
	"github.com/okian/mergington/internal/adapters/repository"
	service "github.com/okian/mergington/internal/app"
	"github.com/okian/mergington/internal/domain/credentials"
	"github.com/okian/mergington/internal/domain/model"
	"github.com/okian/mergington/internal/domain/types"
	"github.com/okian/mergington/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithOutput(io.Discard)); err != nil {
		panic(err)
	}
}

type testEnv struct {
	srv *httptest.Server
	svc *service.Service
}

func newTestEnv(opts ...service.Option) *testEnv {
	ctx := context.Background()
	base := []service.Option{
		service.WithCredentials(credentials.New(
			credentials.Teacher{Username: "mrodriguez", Password: "art2024"},
			credentials.Teacher{Username: "jchen", Password: "chess123"},
		)),
	}
	svc := service.New(ctx, append(base, opts...)...)
	_ = svc.Start(ctx)
	srv := httptest.NewServer(api.NewServer(svc, api.WithMaxAuditLimit(50)).Handler(ctx))
	return &testEnv{srv: srv, svc: svc}
}

func (e *testEnv) close() {
	e.srv.Close()
	_ = e.svc.Stop(context.Background())
}

func (e *testEnv) do(method, path, token, body string) *http.Response {
	var rdr io.Reader = http.NoBody
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, rdr)
	So(err, ShouldBeNil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	So(err, ShouldBeNil)
	return resp
}

func (e *testEnv) login(username, password string) string {
	resp := e.do(http.MethodPost, "/auth/login", "", `{"username":"`+username+`","password":"`+password+`"}`)
	defer resp.Body.Close()
	So(resp.StatusCode, ShouldEqual, http.StatusOK)
	var out types.LoginResponse
	So(json.NewDecoder(resp.Body).Decode(&out), ShouldBeNil)
	return out.Token
}

func decode[T any](resp *http.Response) T {
	defer resp.Body.Close()
	var out T
	So(json.NewDecoder(resp.Body).Decode(&out), ShouldBeNil)
	return out
}

func TestActivitiesListing(t *testing.T) {
	Convey("Given a fresh server", t, func() {
		env := newTestEnv()
		defer env.close()

		Convey("When listing activities", func() {
			resp := env.do(http.MethodGet, "/activities", "", "")

			Convey("Then the nine seeded activities come back keyed by name", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(resp.Header.Get("Content-Type"), ShouldContainSubstring, "application/json")

				raw := decode[map[string]map[string]any](resp)
				So(len(raw), ShouldEqual, 9)
				chess := raw["Chess Club"]
				So(chess["description"], ShouldEqual, "Learn strategies and compete in chess tournaments")
				So(chess["schedule"], ShouldEqual, "Fridays, 3:30 PM - 5:00 PM")
				So(chess["max_participants"], ShouldEqual, float64(12))
				So(chess["participants"], ShouldResemble, []any{"michael@mergington.edu", "daniel@mergington.edu"})
				_, hasName := chess["name"]
				So(hasName, ShouldBeFalse)
			})
		})
	})
}

func TestLogin(t *testing.T) {
	Convey("Given a server with two teachers", t, func() {
		env := newTestEnv()
		defer env.close()

		Convey("When logging in with correct credentials", func() {
			resp := env.do(http.MethodPost, "/auth/login", "", `{"username":"mrodriguez","password":"art2024"}`)
			out := decode[types.LoginResponse](resp)

			Convey("Then a 32 character token is issued", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(out.Username, ShouldEqual, "mrodriguez")
				So(len(out.Token), ShouldEqual, 32)
			})
		})

		Convey("When logging in with a wrong password", func() {
			resp := env.do(http.MethodPost, "/auth/login", "", `{"username":"mrodriguez","password":"nope"}`)
			out := decode[types.ErrorResponse](resp)

			Convey("Then it is rejected", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusUnauthorized)
				So(out.Detail, ShouldEqual, "Invalid username or password")
			})
		})

		Convey("When logging in as an unknown user", func() {
			resp := env.do(http.MethodPost, "/auth/login", "", `{"username":"ghost","password":"art2024"}`)
			out := decode[types.ErrorResponse](resp)
			So(resp.StatusCode, ShouldEqual, http.StatusUnauthorized)
			So(out.Detail, ShouldEqual, "Invalid username or password")
		})

		Convey("When the body is not JSON", func() {
			resp := env.do(http.MethodPost, "/auth/login", "", `username=mrodriguez`)
			out := decode[types.ErrorResponse](resp)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			So(out.Code, ShouldEqual, "bad_request")
		})
	})
}

func TestRosterChanges(t *testing.T) {
	Convey("Given a logged in teacher", t, func() {
		env := newTestEnv()
		defer env.close()
		token := env.login("mrodriguez", "art2024")

		Convey("When signing up a new student", func() {
			resp := env.do(http.MethodPost, "/activities/Chess%20Club/signup?email=newkid@mergington.edu", token, "")
			out := decode[types.MessageResponse](resp)

			Convey("Then it succeeds", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(out.Message, ShouldEqual, "Signed up newkid@mergington.edu for Chess Club")
			})

			Convey("And signing up the same student again fails", func() {
				resp := env.do(http.MethodPost, "/activities/Chess%20Club/signup?email=newkid@mergington.edu", token, "")
				out := decode[types.ErrorResponse](resp)
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
				So(out.Detail, ShouldEqual, "Student is already signed up")

				list := decode[model.Catalog](env.do(http.MethodGet, "/activities", "", ""))
				So(len(list["Chess Club"].Participants), ShouldEqual, 3)
			})

			Convey("And unregistering the student succeeds", func() {
				resp := env.do(http.MethodDelete, "/activities/Chess%20Club/unregister?email=newkid@mergington.edu", token, "")
				out := decode[types.MessageResponse](resp)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(out.Message, ShouldEqual, "Unregistered newkid@mergington.edu from Chess Club")
			})
		})

		Convey("When unregistering a student who is not signed up", func() {
			resp := env.do(http.MethodDelete, "/activities/Chess%20Club/unregister?email=ghost@mergington.edu", token, "")
			out := decode[types.ErrorResponse](resp)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			So(out.Detail, ShouldEqual, "Student is not signed up for this activity")
		})

		Convey("When the activity does not exist", func() {
			resp := env.do(http.MethodPost, "/activities/Knitting/signup?email=a@mergington.edu", token, "")
			out := decode[types.ErrorResponse](resp)
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			So(out.Detail, ShouldEqual, "Activity not found")
		})

		Convey("When the email parameter is missing", func() {
			resp := env.do(http.MethodPost, "/activities/Chess%20Club/signup", token, "")
			out := decode[types.ErrorResponse](resp)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			So(out.Code, ShouldEqual, "bad_request")
		})
	})
}

func TestActivityNameEscaping(t *testing.T) {
	Convey("Given activities whose names contain escape-like text", t, func() {
		store := repository.NewMemoryStore(context.Background(), repository.WithActivities(
			model.Activity{Name: "Room %41 Club", MaxParticipants: 5, Participants: []string{}},
			model.Activity{Name: "Room A Club", MaxParticipants: 5, Participants: []string{}},
			model.Activity{Name: "Room/B", MaxParticipants: 5, Participants: []string{}},
		))
		env := newTestEnv(service.WithActivityStore(store))
		defer env.close()
		token := env.login("mrodriguez", "art2024")

		Convey("When signing up for the name with a literal percent escape", func() {
			resp := env.do(http.MethodPost, "/activities/Room%20%2541%20Club/signup?email=x@mergington.edu", token, "")
			out := decode[types.MessageResponse](resp)

			Convey("Then only that roster changes", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(out.Message, ShouldEqual, "Signed up x@mergington.edu for Room %41 Club")

				list := decode[model.Catalog](env.do(http.MethodGet, "/activities", "", ""))
				So(list["Room %41 Club"].Participants, ShouldResemble, []string{"x@mergington.edu"})
				So(list["Room A Club"].Participants, ShouldBeEmpty)
			})
		})

		Convey("When the name contains an escaped slash", func() {
			resp := env.do(http.MethodPost, "/activities/Room%2FB/signup?email=y@mergington.edu", token, "")
			out := decode[types.MessageResponse](resp)

			Convey("Then the slash is decoded once", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(out.Message, ShouldEqual, "Signed up y@mergington.edu for Room/B")
			})
		})
	})
}

func TestCapacityNotEnforcedByDefault(t *testing.T) {
	Convey("Given a full Math Club", t, func() {
		env := newTestEnv()
		defer env.close()
		token := env.login("jchen", "chess123")

		for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
			resp := env.do(http.MethodPost, "/activities/Math%20Club/signup?email="+name+"@mergington.edu", token, "")
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		}

		Convey("Then one more signup still succeeds", func() {
			resp := env.do(http.MethodPost, "/activities/Math%20Club/signup?email=overflow@mergington.edu", token, "")
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})
	})

	Convey("Given capacity enforcement", t, func() {
		env := newTestEnv(service.WithCapacityEnforcement(true))
		defer env.close()
		token := env.login("jchen", "chess123")

		for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
			env.do(http.MethodPost, "/activities/Math%20Club/signup?email="+name+"@mergington.edu", token, "").Body.Close()
		}

		Convey("Then the next signup is refused", func() {
			resp := env.do(http.MethodPost, "/activities/Math%20Club/signup?email=overflow@mergington.edu", token, "")
			out := decode[types.ErrorResponse](resp)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			So(out.Detail, ShouldEqual, "Activity is full")
		})
	})
}

func TestAuthorization(t *testing.T) {
	Convey("Given a server", t, func() {
		env := newTestEnv()
		defer env.close()

		Convey("When mutating without a token", func() {
			paths := []struct{ method, path string }{
				{http.MethodPost, "/activities/Chess%20Club/signup?email=x@mergington.edu"},
				{http.MethodPost, "/activities/Nope/signup"},
				{http.MethodDelete, "/activities/Chess%20Club/unregister?email=michael@mergington.edu"},
				{http.MethodPost, "/auth/logout"},
				{http.MethodGet, "/audit"},
			}

			Convey("Then every route answers 401 before looking at the payload", func() {
				for _, p := range paths {
					resp := env.do(p.method, p.path, "", "")
					out := decode[types.ErrorResponse](resp)
					So(resp.StatusCode, ShouldEqual, http.StatusUnauthorized)
					So(out.Detail, ShouldEqual, "Missing or invalid authorization token")
				}
			})
		})

		Convey("When using a malformed scheme", func() {
			req, _ := http.NewRequest(http.MethodPost, env.srv.URL+"/auth/logout", http.NoBody)
			req.Header.Set("Authorization", "Token abc")
			resp, err := http.DefaultClient.Do(req)
			So(err, ShouldBeNil)
			out := decode[types.ErrorResponse](resp)
			So(resp.StatusCode, ShouldEqual, http.StatusUnauthorized)
			So(out.Detail, ShouldEqual, "Missing or invalid authorization token")
		})

		Convey("When using an unknown token", func() {
			resp := env.do(http.MethodPost, "/activities/Chess%20Club/signup?email=x@mergington.edu", "not-a-real-token", "")
			out := decode[types.ErrorResponse](resp)
			So(resp.StatusCode, ShouldEqual, http.StatusUnauthorized)
			So(out.Detail, ShouldEqual, "Invalid or expired token")
		})

		Convey("When a teacher logs out", func() {
			token := env.login("mrodriguez", "art2024")
			resp := env.do(http.MethodPost, "/auth/logout", token, "")
			out := decode[types.MessageResponse](resp)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(out.Message, ShouldEqual, "Logged out mrodriguez")

			Convey("Then the token is rejected afterwards", func() {
				resp := env.do(http.MethodPost, "/activities/Chess%20Club/signup?email=x@mergington.edu", token, "")
				out := decode[types.ErrorResponse](resp)
				So(resp.StatusCode, ShouldEqual, http.StatusUnauthorized)
				So(out.Detail, ShouldEqual, "Invalid or expired token")
			})

			Convey("Then logging out twice fails", func() {
				resp := env.do(http.MethodPost, "/auth/logout", token, "")
				resp.Body.Close()
				So(resp.StatusCode, ShouldEqual, http.StatusUnauthorized)
			})
		})
	})
}

func TestAuditEndpoint(t *testing.T) {
	Convey("Given a teacher who changed a roster", t, func() {
		env := newTestEnv()
		defer env.close()
		token := env.login("mrodriguez", "art2024")
		env.do(http.MethodPost, "/activities/Art%20Club/signup?email=painter@mergington.edu", token, "").Body.Close()

		Convey("When reading the audit journal", func() {
			var events []model.RosterEvent
			deadline := time.Now().Add(2 * time.Second)
			for time.Now().Before(deadline) {
				events = decode[[]model.RosterEvent](env.do(http.MethodGet, "/audit?limit=10", token, ""))
				if len(events) >= 2 {
					break
				}
				time.Sleep(10 * time.Millisecond)
			}

			Convey("Then the newest event comes first", func() {
				So(len(events), ShouldEqual, 2)
				So(events[0].Kind, ShouldEqual, model.EventSignup)
				So(events[0].Email, ShouldEqual, "painter@mergington.edu")
				So(events[1].Kind, ShouldEqual, model.EventLogin)
			})
		})

		Convey("When the limit is out of range", func() {
			for _, q := range []string{"0", "51", "abc", "-3"} {
				resp := env.do(http.MethodGet, "/audit?limit="+q, token, "")
				out := decode[types.ErrorResponse](resp)
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
				So(out.Detail, ShouldContainSubstring, "between 1 and 50")
			}
		})
	})
}

func TestOperationalEndpoints(t *testing.T) {
	Convey("Given a server", t, func() {
		env := newTestEnv()
		defer env.close()

		Convey("Then /healthz reports ok", func() {
			out := decode[types.HealthResponse](env.do(http.MethodGet, "/healthz", "", ""))
			So(out.Status, ShouldEqual, "ok")
		})

		Convey("Then /stats reports the roster and pipeline", func() {
			out := decode[types.Stats](env.do(http.MethodGet, "/stats", "", ""))
			So(out.Activities, ShouldEqual, 9)
			So(out.Participants, ShouldEqual, 18)
			So(out.Started, ShouldBeTrue)
		})

		Convey("Then /metrics exposes the custom registry", func() {
			env.do(http.MethodGet, "/activities", "", "").Body.Close()
			resp := env.do(http.MethodGet, "/metrics", "", "")
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(string(body), ShouldContainSubstring, "mergington_activities_http_requests_total")
		})

		Convey("Then a request id is minted when absent", func() {
			resp := env.do(http.MethodGet, "/healthz", "", "")
			resp.Body.Close()
			So(len(resp.Header.Get(api.RequestIDHeader)), ShouldEqual, 36)
		})

		Convey("Then a caller supplied request id is echoed", func() {
			req, _ := http.NewRequest(http.MethodGet, env.srv.URL+"/healthz", http.NoBody)
			req.Header.Set(api.RequestIDHeader, "trace-abc")
			resp, err := http.DefaultClient.Do(req)
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.Header.Get(api.RequestIDHeader), ShouldEqual, "trace-abc")
		})
	})
}
