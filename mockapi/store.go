package mockapi

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/launchdarkly/posts-api-contract-tests/framework/helpers"
	o "github.com/launchdarkly/posts-api-contract-tests/framework/opt"
	"github.com/launchdarkly/posts-api-contract-tests/servicedef"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 4

// authError messages are sent to the client verbatim as the body of a 400 response.
type authError string

func (e authError) Error() string { return string(e) }

const (
	errEmailTaken        authError = "Email already exists"
	errEmailInvalid      authError = "Email format is invalid"
	errPasswordTooShort  authError = "Password is too short"
	errUnknownUser       authError = "Cannot find user"
	errIncorrectPassword authError = "Incorrect password"
)

type user struct {
	ID           int
	Email        string
	PasswordHash []byte
}

// postQuery is the parsed form of the query string on GET of the posts collection.
type postQuery struct {
	IDs        []string
	Sort       string
	Descending bool
	Limit      int
}

func parsePostQuery(values map[string][]string) (postQuery, error) {
	q := postQuery{IDs: values[servicedef.QueryID]}
	if s := values[servicedef.QuerySort]; len(s) > 0 {
		q.Sort = s[0]
	}
	if s := values[servicedef.QueryOrder]; len(s) > 0 {
		q.Descending = strings.EqualFold(s[0], servicedef.OrderDescending)
	}
	if s := values[servicedef.QueryLimit]; len(s) > 0 {
		n, err := strconv.Atoi(s[0])
		if err != nil || n < 0 {
			return postQuery{}, fmt.Errorf("invalid %s value %q", servicedef.QueryLimit, s[0])
		}
		q.Limit = n
	}
	return q, nil
}

// store is the in-memory state of the mock service. All methods are safe for concurrent use.
type store struct {
	lock  sync.RWMutex
	posts map[int]servicedef.Post
	users map[string]user
}

func newStore(seedPosts int) *store {
	s := &store{
		posts: make(map[int]servicedef.Post, seedPosts),
		users: make(map[string]user),
	}
	for i := 1; i <= seedPosts; i++ {
		s.posts[i] = servicedef.Post{
			ID:     i,
			Title:  fmt.Sprintf("seeded post %d", i),
			Body:   fmt.Sprintf("body of seeded post %d", i),
			UserID: o.Some((i-1)/10 + 1),
		}
	}
	return s
}

func (s *store) sortedPostsLocked() []servicedef.Post {
	ret := make([]servicedef.Post, 0, len(s.posts))
	for _, p := range s.posts {
		ret = append(ret, p)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].ID < ret[j].ID })
	return ret
}

func (s *store) list(q postQuery) servicedef.PostList {
	s.lock.RLock()
	all := s.sortedPostsLocked()
	s.lock.RUnlock()

	ret := servicedef.PostList{}
	for _, p := range all {
		if len(q.IDs) == 0 || helpers.SliceContains(strconv.Itoa(p.ID), q.IDs) {
			ret = append(ret, p)
		}
	}
	if less := postComparator(q.Sort); less != nil {
		sort.SliceStable(ret, func(i, j int) bool {
			if q.Descending {
				return less(ret[j], ret[i])
			}
			return less(ret[i], ret[j])
		})
	}
	if q.Limit > 0 && len(ret) > q.Limit {
		ret = ret[:q.Limit]
	}
	return ret
}

func postComparator(field string) func(a, b servicedef.Post) bool {
	switch field {
	case "id":
		return func(a, b servicedef.Post) bool { return a.ID < b.ID }
	case "title":
		return func(a, b servicedef.Post) bool { return a.Title < b.Title }
	case "body":
		return func(a, b servicedef.Post) bool { return a.Body < b.Body }
	case "userId":
		return func(a, b servicedef.Post) bool { return a.UserID.OrElse(0) < b.UserID.OrElse(0) }
	default:
		return nil
	}
}

func (s *store) get(id int) (servicedef.Post, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	p, ok := s.posts[id]
	return p, ok
}

// create stores a post under the next id, which is one more than the highest existing id.
func (s *store) create(p servicedef.Post) servicedef.Post {
	s.lock.Lock()
	defer s.lock.Unlock()
	maxID := 0
	for id := range s.posts {
		if id > maxID {
			maxID = id
		}
	}
	p.ID = maxID + 1
	s.posts[p.ID] = p
	return p
}

// patch applies a partial update. Only the fields present in the request are changed, and the
// id never changes.
func (s *store) patch(id int, apply func(*servicedef.Post)) (servicedef.Post, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return servicedef.Post{}, false
	}
	apply(&p)
	p.ID = id
	s.posts[id] = p
	return p, true
}

func (s *store) delete(id int) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.posts[id]; !ok {
		return false
	}
	delete(s.posts, id)
	return true
}

func (s *store) register(creds servicedef.Credentials) (user, error) {
	if !strings.Contains(creds.Email, "@") {
		return user{}, errEmailInvalid
	}
	if len(creds.Password) < minPasswordLength {
		return user{}, errPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return user{}, err
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	if _, exists := s.users[creds.Email]; exists {
		return user{}, errEmailTaken
	}
	u := user{ID: len(s.users) + 1, Email: creds.Email, PasswordHash: hash}
	s.users[u.Email] = u
	return u, nil
}

func (s *store) login(creds servicedef.Credentials) (user, error) {
	s.lock.RLock()
	u, ok := s.users[creds.Email]
	s.lock.RUnlock()
	if !ok {
		return user{}, errUnknownUser
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(creds.Password)); err != nil {
		return user{}, errIncorrectPassword
	}
	return u, nil
}
