// Package user holds hand-maintained stubs for the user-service gRPC
// contract (user.UserDirectory). Keep in sync with the service definition.
package user

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
)

type ResolveNamesRequest struct {
	Names []string `protobuf:"bytes,1,rep,name=names,proto3" json:"names,omitempty"`
}

func (x *ResolveNamesRequest) Reset()         { *x = ResolveNamesRequest{} }
func (x *ResolveNamesRequest) String() string { return fmt.Sprintf("%+v", *x) }
func (*ResolveNamesRequest) ProtoMessage()    {}

func (x *ResolveNamesRequest) GetNames() []string {
	if x != nil {
		return x.Names
	}
	return nil
}

type UserIdAndName struct {
	Id   string `protobuf:"bytes,1,opt,name=id,proto3" json:"id,omitempty"`
	Name string `protobuf:"bytes,2,opt,name=name,proto3" json:"name,omitempty"`
}

func (x *UserIdAndName) Reset()         { *x = UserIdAndName{} }
func (x *UserIdAndName) String() string { return fmt.Sprintf("%+v", *x) }
func (*UserIdAndName) ProtoMessage()    {}

func (x *UserIdAndName) GetId() string {
	if x != nil {
		return x.Id
	}
	return ""
}

func (x *UserIdAndName) GetName() string {
	if x != nil {
		return x.Name
	}
	return ""
}

type ResolveNamesResponse struct {
	Users []*UserIdAndName `protobuf:"bytes,1,rep,name=users,proto3" json:"users,omitempty"`
}

func (x *ResolveNamesResponse) Reset()         { *x = ResolveNamesResponse{} }
func (x *ResolveNamesResponse) String() string { return fmt.Sprintf("%+v", *x) }
func (*ResolveNamesResponse) ProtoMessage()    {}

func (x *ResolveNamesResponse) GetUsers() []*UserIdAndName {
	if x != nil {
		return x.Users
	}
	return nil
}

// UserDirectoryClient is the client API for the user directory service.
type UserDirectoryClient interface {
	ResolveNames(ctx context.Context, in *ResolveNamesRequest, opts ...grpc.CallOption) (*ResolveNamesResponse, error)
}

type userDirectoryClient struct {
	cc grpc.ClientConnInterface
}

func NewUserDirectoryClient(cc grpc.ClientConnInterface) UserDirectoryClient {
	return &userDirectoryClient{cc}
}

func (c *userDirectoryClient) ResolveNames(ctx context.Context, in *ResolveNamesRequest, opts ...grpc.CallOption) (*ResolveNamesResponse, error) {
	out := new(ResolveNamesResponse)
	err := c.cc.Invoke(ctx, "/user.UserDirectory/ResolveNames", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}
