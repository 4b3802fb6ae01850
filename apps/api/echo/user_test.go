package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/trezcool/mahudhurio/core/user"
	testutil "github.com/trezcool/mahudhurio/tests"
)

func Test_userApi_login(t *testing.T) {
	usr := testutil.CreateUser(t, usrRepo, "Hero", "lghero", "lghero@test.tz", "s3cret", user.StudentRoles, true)
	naughty := testutil.CreateUser(t, usrRepo, "N Dog", "lgndog", "lgndog@test.tz", "s3cret", user.StudentRoles, false)

	tests := []httpTest{
		{
			name: "Empty payload", body: marchallObj(t, LoginRequest{}),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "Unknown user", body: marchallObj(t, LoginRequest{Username: "lol", Password: "lol"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "Wrong password", body: marchallObj(t, LoginRequest{Username: usr.Username, Password: "lol"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "Inactive user", body: marchallObj(t, LoginRequest{Username: naughty.Username, Password: "s3cret"}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
		{
			name: "Login with username", body: marchallObj(t, LoginRequest{Username: usr.Username, Password: "s3cret"}),
			wantCode: http.StatusOK,
		},
		{
			name: "Login with email", body: marchallObj(t, LoginRequest{Username: usr.Email, Password: "s3cret"}),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", tt.body)
			server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				var resp LoginResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("unmarshalling response: %v", err)
				}
				if resp.Token == "" {
					t.Error("expected a token")
				}
			}
		})
	}
}

func Test_userApi_retrieve(t *testing.T) {
	usr := testutil.CreateUser(t, usrRepo, "Hero", "rthero", "rthero@test.tz", "s3cret", user.StudentRoles, true)
	other := testutil.CreateUser(t, usrRepo, "Other", "rtother", "rtother@test.tz", "s3cret", user.StudentRoles, true)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "rtadmin", "rtadmin@test.tz", "s3cret", user.AdminRoles, true)

	tests := []httpTest{
		{name: "Auth required", path: "/v1/users/" + usr.ID, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Own account", path: "/v1/users/" + usr.ID, token: getToken(t, usr),
			wantCode: http.StatusOK, wantData: marchallObj(t, usr),
		},
		{
			name: "Someone else's account hidden", path: "/v1/users/" + other.ID, token: getToken(t, usr),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "Admin sees all", path: "/v1/users/" + other.ID, token: getToken(t, admin),
			wantCode: http.StatusOK, wantData: marchallObj(t, other),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_create(t *testing.T) {
	admin := testutil.CreateUser(t, usrRepo, "Admin", "cradmin", "cradmin@test.tz", "s3cret", user.AdminRoles, true)
	student := testutil.CreateUser(t, usrRepo, "Hero", "crhero", "crhero@test.tz", "s3cret", user.StudentRoles, true)
	sec := testutil.CreateSection(t, schoolSvc, "Cr Science", "Cr 2026", "First Year", "10-A")

	body := marchallObj(t, user.NewUser{
		Name:            "Teacher",
		Username:        "crteacher",
		Email:           "crteacher@test.tz",
		Password:        "Str0ng.Pass!",
		PasswordConfirm: "Str0ng.Pass!",
		Roles:           user.TeacherRoles,
		SectionID:       sec.ID,
	})

	tests := []httpTest{
		{name: "Auth required", body: body, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin required", body: body, token: getToken(t, student),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{name: "Created", body: body, token: getToken(t, admin), wantCode: http.StatusCreated},
		{name: "Duplicate rejected", body: body, token: getToken(t, admin), wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/users/register", tt.token, tt.body)
			server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusCreated {
				var created user.User
				if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
					t.Fatalf("unmarshalling response: %v", err)
				}
				if !created.IsTeacher() {
					t.Error("expected a teacher account")
				}
			}
		})
	}
}
