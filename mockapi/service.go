// Package mockapi is an in-process stand-in for the posts service: a json-server style posts
// collection behind json-server-auth style registration, login and permission-prefixed routes.
//
// It exists so that the contract test suite can check itself without an external deployment. It
// is deliberately small and is not a reference implementation of the service.
package mockapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/launchdarkly/posts-api-contract-tests/config"
	"github.com/launchdarkly/posts-api-contract-tests/framework"
	o "github.com/launchdarkly/posts-api-contract-tests/framework/opt"
	"github.com/launchdarkly/posts-api-contract-tests/servicedef"

	"github.com/gorilla/mux"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

const (
	// publicPermissions applies to the unprefixed posts routes: anyone can read and write.
	publicPermissions = "666"

	// defaultGuardPermissions applies to a configured protected prefix that isn't itself a
	// permission triple, such as "/protected".
	defaultGuardPermissions = "664"

	permRead  = 4
	permWrite = 2
)

var permissionPrefixPattern = regexp.MustCompile(`^/[0-7]{3}$`)

// PostsService is an http.Handler that serves the posts API from memory.
type PostsService struct {
	store       *store
	tokens      *tokenManager
	handler     http.Handler
	debugLogger framework.Logger
}

// NewPostsService creates a service seeded with mockConfig.SeedPosts posts whose ids run from 1
// upward, serving the given routes.
func NewPostsService(
	routes config.Routes,
	mockConfig config.MockConfig,
	debugLogger framework.Logger,
) (*PostsService, error) {
	if debugLogger == nil {
		debugLogger = framework.NullLogger()
	}
	tokens, err := newTokenManager(mockConfig.TokenSecret, time.Duration(mockConfig.TokenTTL))
	if err != nil {
		return nil, err
	}
	s := &PostsService{
		store:       newStore(mockConfig.SeedPosts),
		tokens:      tokens,
		debugLogger: debugLogger,
	}

	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, emptyObject())
	})
	router.HandleFunc(routes.Register, s.handleRegister).Methods("POST")
	router.HandleFunc(routes.Login, s.handleLogin).Methods("POST")
	if routes.ProtectedPrefix != "" && !permissionPrefixPattern.MatchString(routes.ProtectedPrefix) {
		s.addPostsRoutes(router.PathPrefix(routes.ProtectedPrefix).Subrouter(), routes.Posts, defaultGuardPermissions)
	}
	s.addPostsRoutes(router.PathPrefix("/{perm:[0-7]{3}}").Subrouter(), routes.Posts, "")
	s.addPostsRoutes(router, routes.Posts, publicPermissions)
	s.handler = router

	return s, nil
}

func (s *PostsService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// addPostsRoutes registers the collection and item routes. If perm is empty, the permission
// triple is taken from the "perm" path variable.
func (s *PostsService) addPostsRoutes(router *mux.Router, postsPath, perm string) {
	guard := func(write bool, next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			p := perm
			if p == "" {
				p = mux.Vars(r)["perm"]
			}
			if s.authorize(w, r, p, write) {
				next(w, r)
			}
		}
	}
	itemPath := postsPath + "/{id}"
	router.HandleFunc(postsPath, guard(false, s.listPosts)).Methods("GET")
	router.HandleFunc(postsPath, guard(true, s.createPost)).Methods("POST")
	router.HandleFunc(itemPath, guard(false, s.getPost)).Methods("GET")
	router.HandleFunc(itemPath, guard(true, s.updatePost)).Methods("PATCH", "PUT")
	router.HandleFunc(itemPath, guard(true, s.deletePost)).Methods("DELETE")
}

// authorize applies a permission triple (owner, logged-in user, public) in the manner of
// json-server-auth. Ownership is not tracked, so the owner and logged-in digits both only require
// a valid token. On failure it writes the response and returns false.
func (s *PostsService) authorize(w http.ResponseWriter, r *http.Request, perm string, write bool) bool {
	bit := permRead
	if write {
		bit = permWrite
	}
	digit := func(i int) int { return int(perm[i] - '0') }
	if digit(2)&bit != 0 {
		return true
	}

	header := r.Header.Get("Authorization")
	if header == "" {
		writeJSON(w, http.StatusUnauthorized, "Missing authorization header")
		return false
	}
	tokenString, isBearer := strings.CutPrefix(header, "Bearer ")
	if !isBearer {
		writeJSON(w, http.StatusUnauthorized, "Incorrect authorization header format")
		return false
	}
	claims, err := s.tokens.validate(strings.TrimSpace(tokenString))
	if err != nil {
		s.debugLogger.Printf("Rejected token for %s %s: %s", r.Method, r.URL.Path, err)
		writeJSON(w, http.StatusUnauthorized, err.Error())
		return false
	}
	if digit(1)&bit == 0 && digit(0)&bit == 0 {
		writeJSON(w, http.StatusForbidden, "Private resource access: entity must have a reference to the owner id")
		return false
	}
	s.debugLogger.Printf("Authorized %s %s for %s", r.Method, r.URL.Path, claims.Email)
	return true
}

func (s *PostsService) handleRegister(w http.ResponseWriter, r *http.Request) {
	creds, ok := readCredentials(w, r)
	if !ok {
		return
	}
	u, err := s.store.register(creds)
	if err != nil {
		s.writeAuthError(w, err)
		return
	}
	s.debugLogger.Printf("Registered user %d (%s)", u.ID, u.Email)
	s.writeAuthResponse(w, http.StatusCreated, u)
}

func (s *PostsService) handleLogin(w http.ResponseWriter, r *http.Request) {
	creds, ok := readCredentials(w, r)
	if !ok {
		return
	}
	u, err := s.store.login(creds)
	if err != nil {
		s.writeAuthError(w, err)
		return
	}
	s.debugLogger.Printf("Logged in user %d (%s)", u.ID, u.Email)
	s.writeAuthResponse(w, http.StatusOK, u)
}

func (s *PostsService) writeAuthResponse(w http.ResponseWriter, status int, u user) {
	token, err := s.tokens.generate(u)
	if err != nil {
		s.debugLogger.Printf("Failed to sign token: %s", err)
		writeJSON(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, status, servicedef.AuthResponse{
		AccessToken: token,
		User:        servicedef.AuthUser{ID: u.ID, Email: u.Email},
	})
}

func (s *PostsService) writeAuthError(w http.ResponseWriter, err error) {
	var ae authError
	if errors.As(err, &ae) {
		writeJSON(w, http.StatusBadRequest, ae.Error())
		return
	}
	s.debugLogger.Printf("Unexpected auth error: %s", err)
	writeJSON(w, http.StatusInternalServerError, err.Error())
}

func readCredentials(w http.ResponseWriter, r *http.Request) (servicedef.Credentials, bool) {
	var creds servicedef.Credentials
	body, err := readJSONBody(r)
	if err == nil && body != nil {
		err = json.Unmarshal(body, &creds)
	}
	if err != nil || creds.Email == "" || creds.Password == "" {
		writeJSON(w, http.StatusBadRequest, "Email and password are required")
		return servicedef.Credentials{}, false
	}
	return creds, true
}

func (s *PostsService) listPosts(w http.ResponseWriter, r *http.Request) {
	q, err := parsePostQuery(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.store.list(q))
}

func (s *PostsService) getPost(w http.ResponseWriter, r *http.Request) {
	p, ok := s.lookupPost(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, emptyObject())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *PostsService) createPost(w http.ResponseWriter, r *http.Request) {
	var p servicedef.Post
	body, err := readJSONBody(r)
	if err == nil && body != nil {
		err = json.Unmarshal(body, &p)
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, err.Error())
		return
	}
	created := s.store.create(p)
	s.debugLogger.Printf("Created post %d", created.ID)
	writeJSON(w, http.StatusCreated, created)
}

// updatePost handles both PATCH, which changes only the properties present in the body, and PUT,
// which replaces the whole post.
func (s *PostsService) updatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := postIDFromPath(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, emptyObject())
		return
	}
	body, err := readJSONBody(r)
	fields := ldvalue.Null()
	if err == nil && body != nil {
		err = json.Unmarshal(body, &fields)
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, err.Error())
		return
	}
	replace := r.Method == http.MethodPut
	updated, found := s.store.patch(id, func(p *servicedef.Post) {
		if replace {
			*p = servicedef.Post{}
		}
		if v := fields.GetByKey("title"); v.IsString() {
			p.Title = v.StringValue()
		}
		if v := fields.GetByKey("body"); v.IsString() {
			p.Body = v.StringValue()
		}
		if v := fields.GetByKey("userId"); v.IsNumber() {
			p.UserID = o.Some(v.IntValue())
		}
	})
	if !found {
		writeJSON(w, http.StatusNotFound, emptyObject())
		return
	}
	s.debugLogger.Printf("Updated post %d", id)
	writeJSON(w, http.StatusOK, updated)
}

func (s *PostsService) deletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := postIDFromPath(r)
	if !ok || !s.store.delete(id) {
		writeJSON(w, http.StatusNotFound, emptyObject())
		return
	}
	s.debugLogger.Printf("Deleted post %d", id)
	writeJSON(w, http.StatusOK, emptyObject())
}

func (s *PostsService) lookupPost(r *http.Request) (servicedef.Post, bool) {
	id, ok := postIDFromPath(r)
	if !ok {
		return servicedef.Post{}, false
	}
	return s.store.get(id)
}

func postIDFromPath(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	return id, err == nil
}

// readJSONBody returns the request body if it was declared as JSON, or nil otherwise. A body sent
// with any other content type is ignored, as a JSON body parser would do.
func readJSONBody(r *http.Request) ([]byte, error) {
	if !strings.Contains(r.Header.Get("Content-Type"), "json") {
		return nil, nil
	}
	body, err := io.ReadAll(r.Body)
	if err != nil || len(strings.TrimSpace(string(body))) == 0 {
		return nil, err
	}
	return body, nil
}

func emptyObject() ldvalue.Value {
	return ldvalue.ObjectBuild().Build()
}

func writeJSON(w http.ResponseWriter, status int, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
