package main

import (
	"net/http"
	"sort"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/km-arc/go-cradle/framework/app"
	"github.com/km-arc/go-cradle/framework/container"
	gohttp "github.com/km-arc/go-cradle/framework/http"
	"github.com/km-arc/go-cradle/framework/loader"
)

// The demo application: an in-memory user store behind a scoped service
// and a per-request resource controller.

type user struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ── Repository ───────────────────────────────────────────────────────────────

type userRepo struct {
	mu     sync.RWMutex
	nextID int
	users  map[int]user
}

func newUserRepo() *userRepo {
	return &userRepo{nextID: 1, users: map[int]user{}}
}

func (r *userRepo) all() []user {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]user, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *userRepo) find(id int) (user, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	return u, ok
}

func (r *userRepo) save(u user) user {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == 0 {
		u.ID = r.nextID
		r.nextID++
	}
	r.users[u.ID] = u
	return u
}

func (r *userRepo) delete(id int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[id]
	delete(r.users, id)
	return ok
}

// ── Service ──────────────────────────────────────────────────────────────────

type userService struct {
	repo *userRepo
	log  zerolog.Logger
}

func newUserService(repo *userRepo, log zerolog.Logger) *userService {
	return &userService{repo: repo, log: log}
}

func (s *userService) create(name, email string) user {
	u := s.repo.save(user{Name: name, Email: email})
	s.log.Info().Int("id", u.ID).Msg("user created")
	return u
}

// ── Controller ───────────────────────────────────────────────────────────────

type userController struct {
	app.Controller
	users     *userService
	requestID string
}

func newUserController(users *userService, requestID string) *userController {
	return &userController{users: users, requestID: requestID}
}

type userInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (c *userController) Index(w http.ResponseWriter, r *http.Request) {
	c.Response(w).Success(c.users.repo.all())
}

func (c *userController) Store(w http.ResponseWriter, r *http.Request) {
	var in userInput
	if err := c.Request(r).Bind(&in); err != nil {
		c.Response(w).Error(http.StatusBadRequest, err.Error())
		return
	}
	if in.Name == "" || in.Email == "" {
		c.Response(w).Error(http.StatusUnprocessableEntity, "name and email are required")
		return
	}
	c.Response(w).Created(c.users.create(in.Name, in.Email))
}

func (c *userController) Show(w http.ResponseWriter, r *http.Request) {
	u, ok := c.lookup(r)
	if !ok {
		c.Response(w).NotFound()
		return
	}
	c.Response(w).Success(u)
}

func (c *userController) Update(w http.ResponseWriter, r *http.Request) {
	u, ok := c.lookup(r)
	if !ok {
		c.Response(w).NotFound()
		return
	}
	var in userInput
	if err := c.Request(r).Bind(&in); err != nil {
		c.Response(w).Error(http.StatusBadRequest, err.Error())
		return
	}
	if in.Name != "" {
		u.Name = in.Name
	}
	if in.Email != "" {
		u.Email = in.Email
	}
	c.Response(w).Success(c.users.repo.save(u))
}

func (c *userController) Destroy(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(c.Request(r).RouteParam("id"))
	if !c.users.repo.delete(id) {
		c.Response(w).NotFound()
		return
	}
	c.Response(w).NoContent()
}

func (c *userController) lookup(r *http.Request) (user, bool) {
	id, err := strconv.Atoi(c.Request(r).RouteParam("id"))
	if err != nil {
		return user{}, false
	}
	return c.users.repo.find(id)
}

// ── Wiring ───────────────────────────────────────────────────────────────────

func classic(l container.Lifetime) []container.Option {
	return []container.Option{
		container.WithLifetime(l),
		container.WithInjectionMode(container.InjectionClassic),
	}
}

// demoCatalog lists the demo modules. Each declares its own lifetime, which
// module manifests may override.
func demoCatalog() loader.Catalog {
	return loader.Catalog{
		{
			Path: "repositories/user-repo.go",
			Target: container.Func("function userRepo()", newUserRepo).
				Declare(classic(container.Singleton)...),
		},
		{
			Path: "services/user-service.go",
			Target: container.Func("function userService(userRepo, logger)", newUserService).
				Declare(classic(container.Scoped)...),
		},
		{
			Path: "controllers/user-controller.go",
			Target: container.Func("class UserController { constructor(userService, requestId) {} }", newUserController).
				Declare(classic(container.Transient)...),
		},
	}
}

func demoRoutes(a *app.Application) {
	r := a.Router()
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		gohttp.NewResponse(w).Success(map[string]any{
			"message":  "Welcome to " + a.Config().App.Name,
			"registry": a.String(),
		})
	})
	r.Resource("/api/users", "userController")
}
