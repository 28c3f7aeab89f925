// Copyright (c) MemberHub
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"

	"github.com/go-kit/kit/endpoint"
	"github.com/memberhub/memberhub/internal/api"
	"github.com/memberhub/memberhub/pkg/apiutil"
	"github.com/memberhub/memberhub/pkg/errors"
	svcerr "github.com/memberhub/memberhub/pkg/errors/service"
	"github.com/memberhub/memberhub/users"
)

func createUserEndpoint(svc users.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(createUserReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		session, ok := api.SessionFromContext(ctx)
		if !ok {
			return nil, svcerr.ErrAuthentication
		}

		user, vr, err := svc.CreateUser(ctx, session, req.user)
		if err != nil {
			if errors.Contains(err, users.ErrValidation) {
				return fieldErrorsRes{vr}, nil
			}
			return nil, err
		}

		return userRes{User: user, created: true}, nil
	}
}

func updateUserEndpoint(svc users.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(updateUserReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		session, ok := api.SessionFromContext(ctx)
		if !ok {
			return nil, svcerr.ErrAuthentication
		}

		user, vr, err := svc.UpdateUser(ctx, session, req.user)
		if err != nil {
			if errors.Contains(err, users.ErrValidation) {
				return fieldErrorsRes{vr}, nil
			}
			return nil, err
		}

		return userRes{User: user}, nil
	}
}

func viewUserEndpoint(svc users.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(viewUserReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		user, err := svc.ViewUser(ctx, req.idOrLogin)
		if err != nil {
			return nil, err
		}

		return userRes{User: user}, nil
	}
}

func listUsersEndpoint(svc users.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(listUsersReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		page, err := svc.ListUsers(ctx, req.page)
		if err != nil {
			return nil, err
		}

		return usersPageRes{page}, nil
	}
}

func listAuthoritiesEndpoint() endpoint.Endpoint {
	return func(_ context.Context, _ interface{}) (interface{}, error) {
		return authoritiesRes{Authorities: users.Authorities()}, nil
	}
}

func deleteUserEndpoint(svc users.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(deleteUserReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		session, ok := api.SessionFromContext(ctx)
		if !ok {
			return nil, svcerr.ErrAuthentication
		}

		if err := svc.DeleteUser(ctx, session, req.id); err != nil {
			return nil, err
		}

		return deleteUserRes{}, nil
	}
}

func removeAuthorityEndpoint(svc users.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(removeAuthorityReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		session, ok := api.SessionFromContext(ctx)
		if !ok {
			return nil, svcerr.ErrAuthentication
		}

		if err := svc.RemoveAuthority(ctx, session, req.id, req.authority); err != nil {
			return nil, err
		}

		return removeAuthorityRes{}, nil
	}
}

func uploadEndpoint(svc users.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(uploadReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		session, ok := api.SessionFromContext(ctx)
		if !ok {
			return nil, svcerr.ErrAuthentication
		}

		report, err := svc.ProcessUpload(ctx, session, req.file)
		if err != nil {
			return nil, err
		}

		return uploadRes{report}, nil
	}
}
