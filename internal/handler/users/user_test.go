package users

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"account-service/internal/middleware"
	"account-service/internal/model"
	"account-service/internal/repository"
	"account-service/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type stubValidator struct{ err error }

func (s *stubValidator) Validate(i interface{}) error { return s.err }

func newFormCtx(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func newParamCtx(e *echo.Echo, method, val string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, "/users/"+val, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/users/:user_id")
	c.SetParamNames("user_id")
	c.SetParamValues(val)
	return c, rec
}

func newUpdateCtx(e *echo.Echo, id, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPut, "/users/"+id, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/users/:user_id")
	c.SetParamNames("user_id")
	c.SetParamValues(id)
	return c, rec
}

func newQueryCtx(e *echo.Echo, target string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func newMeCtx(e *echo.Echo, method, body string, claims *service.CustomClaims) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, "/users/me", strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	return c, rec
}

func TestCreateUserHandler(t *testing.T) {
	e := echo.New()

	t.Run("bind error", func(t *testing.T) {
		e.Validator = &stubValidator{}
		ctx, rec := newFormCtx(e, "%")
		err := CreateUserHandler(nil)(ctx)
		require.NoError(t, err)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid form data")
	})

	t.Run("validate error", func(t *testing.T) {
		e.Validator = &stubValidator{err: errors.New("v")}
		ctx, rec := newFormCtx(e, "name=Ada&email=ada@example.com&password=p")
		err := CreateUserHandler(nil)(ctx)
		require.NoError(t, err)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "v")
	})

	t.Run("duplicate email", func(t *testing.T) {
		e.Validator = &stubValidator{}
		store := &repository.FakeStore{
			CreateFn: func(ctx context.Context, name, email, password string) (model.User, error) {
				return model.User{}, model.ErrUserAlreadyExists
			},
		}
		ctx, rec := newFormCtx(e, "name=Ada&email=ada@example.com&password=Securepass123!")
		err := CreateUserHandler(store)(ctx)
		require.NoError(t, err)
		require.Equal(t, http.StatusConflict, rec.Code)
		require.Contains(t, rec.Body.String(), "email already registered")
	})

	t.Run("invalid input", func(t *testing.T) {
		e.Validator = &stubValidator{}
		store := &repository.FakeStore{
			CreateFn: func(ctx context.Context, name, email, password string) (model.User, error) {
				return model.User{}, fmt.Errorf("%w: password must contain an uppercase letter", model.ErrInvalidInput)
			},
		}
		ctx, rec := newFormCtx(e, "name=Ada&email=ada@example.com&password=weak")
		err := CreateUserHandler(store)(ctx)
		require.NoError(t, err)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "uppercase letter")
	})

	t.Run("success", func(t *testing.T) {
		e.Validator = &stubValidator{}
		store := &repository.FakeStore{
			CreateFn: func(ctx context.Context, name, email, password string) (model.User, error) {
				require.Equal(t, "Ada Lovelace", name)
				require.Equal(t, "ADA@Example.com", email)
				require.Equal(t, "Securepass123!", password)
				return model.User{ID: 7, Name: "Ada Lovelace", Email: "ada@example.com"}, nil
			},
		}
		ctx, rec := newFormCtx(e, "name=Ada+Lovelace&email=ADA@Example.com&password=Securepass123!")
		err := CreateUserHandler(store)(ctx)
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, rec.Code)
		require.Contains(t, rec.Body.String(), `"id":7`)
		require.Contains(t, rec.Body.String(), `"email":"ada@example.com"`)
		require.NotContains(t, rec.Body.String(), "password")
	})
}

func TestListUsersHandler(t *testing.T) {
	e := echo.New()

	t.Run("bad limit", func(t *testing.T) {
		ctx, rec := newQueryCtx(e, "/users?limit=abc")
		err := ListUsersHandler(nil)(ctx)
		require.NoError(t, err)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid limit")
	})

	t.Run("bad offset", func(t *testing.T) {
		ctx, rec := newQueryCtx(e, "/users?offset=x")
		err := ListUsersHandler(nil)(ctx)
		require.NoError(t, err)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid offset")
	})

	t.Run("store failure", func(t *testing.T) {
		store := &repository.FakeStore{
			ListFn: func(ctx context.Context, limit, offset int) ([]model.User, error) {
				return nil, errors.Join(model.ErrStorage, errors.New("boom"))
			},
		}
		ctx, rec := newQueryCtx(e, "/users")
		err := ListUsersHandler(store)(ctx)
		require.NoError(t, err)
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Contains(t, rec.Body.String(), "internal server error")
	})

	t.Run("success", func(t *testing.T) {
		store := &repository.FakeStore{
			ListFn: func(ctx context.Context, limit, offset int) ([]model.User, error) {
				require.Equal(t, 5, limit)
				require.Equal(t, 10, offset)
				return []model.User{
					{ID: 1, Name: "Ada Lovelace", Email: "ada@example.com"},
					{ID: 2, Name: "Eve Mallory", Email: "eve@example.com"},
				}, nil
			},
		}
		ctx, rec := newQueryCtx(e, "/users?limit=5&offset=10")
		err := ListUsersHandler(store)(ctx)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"id":1`)
		require.Contains(t, rec.Body.String(), `"id":2`)
	})
}

func TestSearchUsersHandler(t *testing.T) {
	e := echo.New()

	t.Run("missing name", func(t *testing.T) {
		store := &repository.FakeStore{
			SearchByNameFn: func(ctx context.Context, name string, limit, offset int) ([]model.User, error) {
				return nil, fmt.Errorf("%w: name is required", model.ErrInvalidInput)
			},
		}
		ctx, rec := newQueryCtx(e, "/users/search")
		err := SearchUsersHandler(store)(ctx)
		require.NoError(t, err)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "name is required")
	})

	t.Run("success", func(t *testing.T) {
		store := &repository.FakeStore{
			SearchByNameFn: func(ctx context.Context, name string, limit, offset int) ([]model.User, error) {
				require.Equal(t, "Ada", name)
				return []model.User{{ID: 1, Name: "Ada Lovelace", Email: "ada@example.com"}}, nil
			},
		}
		ctx, rec := newQueryCtx(e, "/users/search?name=Ada")
		err := SearchUsersHandler(store)(ctx)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Ada Lovelace")
	})
}

func TestGetUserHandler(t *testing.T) {
	e := echo.New()

	t.Run("invalid id", func(t *testing.T) {
		ctx, rec := newParamCtx(e, http.MethodGet, "abc")
		err := GetUserHandler(nil)(ctx)
		require.NoError(t, err)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid user ID")
	})

	t.Run("not found", func(t *testing.T) {
		store := &repository.FakeStore{
			GetByIDFn: func(ctx context.Context, id int) (model.User, error) {
				return model.User{}, model.ErrUserNotFound
			},
		}
		ctx, rec := newParamCtx(e, http.MethodGet, "404")
		err := GetUserHandler(store)(ctx)
		require.NoError(t, err)
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Contains(t, rec.Body.String(), "user not found")
	})

	t.Run("success", func(t *testing.T) {
		store := &repository.FakeStore{
			GetByIDFn: func(ctx context.Context, id int) (model.User, error) {
				require.Equal(t, 3, id)
				return model.User{ID: 3, Name: "Ada Lovelace", Email: "ada@example.com"}, nil
			},
		}
		ctx, rec := newParamCtx(e, http.MethodGet, "3")
		err := GetUserHandler(store)(ctx)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"id":3`)
	})
}

func TestUpdateUserHandler(t *testing.T) {
	e := echo.New()

	t.Run("invalid id", func(t *testing.T) {
		e.Validator = &stubValidator{}
		ctx, rec := newUpdateCtx(e, "abc", "name=Grace")
		err := UpdateUserHandler(nil)(ctx)
		require.NoError(t, err)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid user ID")
	})

	t.Run("bind error", func(t *testing.T) {
		e.Validator = &stubValidator{}
		ctx, rec := newUpdateCtx(e, "3", "%")
		err := UpdateUserHandler(nil)(ctx)
		require.NoError(t, err)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid form data")
	})

	t.Run("validate error", func(t *testing.T) {
		e.Validator = &stubValidator{err: errors.New("v")}
		ctx, rec := newUpdateCtx(e, "3", "email=bad")
		err := UpdateUserHandler(nil)(ctx)
		require.NoError(t, err)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("updates only provided fields", func(t *testing.T) {
		e.Validator = &stubValidator{}
		store := &repository.FakeStore{
			UpdateFn: func(ctx context.Context, id int, params repository.UpdateUserParams) (model.User, error) {
				require.Equal(t, 3, id)
				require.NotNil(t, params.Name)
				require.Equal(t, "Grace Hopper", *params.Name)
				require.Nil(t, params.Email)
				require.Nil(t, params.Password)
				return model.User{ID: 3, Name: "Grace Hopper", Email: "ada@example.com"}, nil
			},
		}
		ctx, rec := newUpdateCtx(e, "3", "name=Grace+Hopper")
		err := UpdateUserHandler(store)(ctx)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Grace Hopper")
	})

	t.Run("duplicate email", func(t *testing.T) {
		e.Validator = &stubValidator{}
		store := &repository.FakeStore{
			UpdateFn: func(ctx context.Context, id int, params repository.UpdateUserParams) (model.User, error) {
				return model.User{}, model.ErrUserAlreadyExists
			},
		}
		ctx, rec := newUpdateCtx(e, "3", "email=eve@example.com")
		err := UpdateUserHandler(store)(ctx)
		require.NoError(t, err)
		require.Equal(t, http.StatusConflict, rec.Code)
		require.Contains(t, rec.Body.String(), "email already registered")
	})
}

func TestDeleteUserHandler(t *testing.T) {
	e := echo.New()

	t.Run("invalid id", func(t *testing.T) {
		ctx, rec := newParamCtx(e, http.MethodDelete, "abc")
		err := DeleteUserHandler(nil)(ctx)
		require.NoError(t, err)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid user ID")
	})

	t.Run("not found", func(t *testing.T) {
		store := &repository.FakeStore{
			DeleteFn: func(ctx context.Context, id int) error { return model.ErrUserNotFound },
		}
		ctx, rec := newParamCtx(e, http.MethodDelete, "404")
		err := DeleteUserHandler(store)(ctx)
		require.NoError(t, err)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		deleted := 0
		store := &repository.FakeStore{
			DeleteFn: func(ctx context.Context, id int) error {
				deleted = id
				return nil
			},
		}
		ctx, rec := newParamCtx(e, http.MethodDelete, "3")
		err := DeleteUserHandler(store)(ctx)
		require.NoError(t, err)
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, 3, deleted)
	})
}

func TestGetMyUserHandler(t *testing.T) {
	e := echo.New()

	t.Run("missing claims", func(t *testing.T) {
		ctx, rec := newMeCtx(e, http.MethodGet, "", nil)
		err := GetMyUserHandler(nil)(ctx)
		require.NoError(t, err)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid or missing token")
	})

	t.Run("success", func(t *testing.T) {
		store := &repository.FakeStore{
			GetByIDFn: func(ctx context.Context, id int) (model.User, error) {
				require.Equal(t, 5, id)
				return model.User{ID: 5, Name: "Ada Lovelace", Email: "ada@example.com"}, nil
			},
		}
		ctx, rec := newMeCtx(e, http.MethodGet, "", &service.CustomClaims{UserID: 5})
		err := GetMyUserHandler(store)(ctx)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"id":5`)
	})
}

func TestUpdateMyUserPasswordHandler(t *testing.T) {
	e := echo.New()

	t.Run("bind error", func(t *testing.T) {
		e.Validator = &stubValidator{}
		ctx, rec := newMeCtx(e, http.MethodPatch, "%", nil)
		err := UpdateMyUserPasswordHandler(nil)(ctx)
		require.NoError(t, err)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid form data")
	})

	t.Run("missing claims", func(t *testing.T) {
		e.Validator = &stubValidator{}
		ctx, rec := newMeCtx(e, http.MethodPatch, "old_password=Old1!&new_password=NewSecure123!", nil)
		err := UpdateMyUserPasswordHandler(nil)(ctx)
		require.NoError(t, err)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid or missing token")
	})

	t.Run("wrong current password", func(t *testing.T) {
		e.Validator = &stubValidator{}
		store := &repository.FakeStore{
			GetByIDFn: func(ctx context.Context, id int) (model.User, error) {
				return model.User{ID: 5, Email: "ada@example.com"}, nil
			},
			AuthenticateFn: func(ctx context.Context, email, password string) (model.User, error) {
				return model.User{}, model.ErrAuthenticationFailed
			},
		}
		ctx, rec := newMeCtx(e, http.MethodPatch, "old_password=Wrong1!&new_password=NewSecure123!", &service.CustomClaims{UserID: 5})
		err := UpdateMyUserPasswordHandler(store)(ctx)
		require.NoError(t, err)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid current password")
	})

	t.Run("success", func(t *testing.T) {
		e.Validator = &stubValidator{}
		store := &repository.FakeStore{
			GetByIDFn: func(ctx context.Context, id int) (model.User, error) {
				require.Equal(t, 5, id)
				return model.User{ID: 5, Email: "ada@example.com"}, nil
			},
			AuthenticateFn: func(ctx context.Context, email, password string) (model.User, error) {
				require.Equal(t, "ada@example.com", email)
				require.Equal(t, "OldSecret123!", password)
				return model.User{ID: 5, Email: "ada@example.com"}, nil
			},
			UpdateFn: func(ctx context.Context, id int, params repository.UpdateUserParams) (model.User, error) {
				require.Equal(t, 5, id)
				require.NotNil(t, params.Password)
				require.Equal(t, "NewSecure123!", *params.Password)
				require.Nil(t, params.Name)
				require.Nil(t, params.Email)
				return model.User{ID: 5, Email: "ada@example.com"}, nil
			},
		}
		ctx, rec := newMeCtx(e, http.MethodPatch, "old_password=OldSecret123!&new_password=NewSecure123!", &service.CustomClaims{UserID: 5})
		err := UpdateMyUserPasswordHandler(store)(ctx)
		require.NoError(t, err)
		require.Equal(t, http.StatusNoContent, rec.Code)
	})
}
