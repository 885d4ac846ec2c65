// Package http connects container scopes to net/http and provides request
// and response helpers.
//
// # Scope per request
//
// ScopePerRequest creates a child scope of the application container for
// every request and disposes it when the handler returns. Scoped
// registrations resolved while handling the request live exactly as long as
// the request.
//
//	router.Middleware(gohttp.ScopePerRequest(app.Container, nil))
//
//	// resolve a controller from the request scope on every request
//	router.Get("/users/{id}", gohttp.Invoke("userController", (*UserController).Show))
//
//	// or by hand
//	users, err := gohttp.FromRequest[*UserService](r, "userService")
//
// # Request
//
//	req := gohttp.NewRequest(r)
//
//	var payload struct {
//	    Name string `json:"name"`
//	}
//	if err := req.Bind(&payload); err != nil { ... }
//
//	page  := req.Query("page", "1")
//	id    := req.RouteParam("id")
//	token := req.BearerToken()
//	v, err := req.Resolve("userService")
//
// # Response
//
//	res := gohttp.NewResponse(w)
//	res.Success(user)            // 200 {"data": user}
//	res.Created(user)            // 201 {"data": user}
//	res.NotFound()               // 404 {"message": "Not found."}
//	res.Fail(err)                // 500, with the resolution path when err is a resolution error
package http
