package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Persister --dir ../domain/roster --output domain/roster --outpkg rostermock --filename persister_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Notifier --dir ../domain/invitation --output domain/invitation --outpkg invitationmock --filename notifier_mock.go
