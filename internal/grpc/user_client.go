package grpc

import (
	"context"

	userpb "relay-service/pb/user"
)

// UserClient wraps the user-service directory gRPC client.
type UserClient struct {
	client userpb.UserDirectoryClient
}

// NewUserClient constructs the wrapper.
func NewUserClient(client userpb.UserDirectoryClient) *UserClient {
	return &UserClient{client: client}
}

// ResolveUsers maps display names to user ids. Names unknown to the
// directory (pseudonyms of users who joined anonymously) are simply absent
// from the result.
func (u *UserClient) ResolveUsers(ctx context.Context, names []string) (map[string]string, error) {
	if len(names) == 0 {
		return map[string]string{}, nil
	}

	resp, err := u.client.ResolveNames(ctx, &userpb.ResolveNamesRequest{Names: names})
	if err != nil {
		return nil, err
	}

	users := make(map[string]string, len(resp.GetUsers()))
	for _, user := range resp.GetUsers() {
		if user.GetName() != "" {
			users[user.GetName()] = user.GetId()
		}
	}
	return users, nil
}
