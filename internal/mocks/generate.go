package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Provider --dir ../domain/squadcache --output domain/squadcache --outpkg squadcachemock --filename provider_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/squadcache --output domain/squadcache --outpkg squadcachemock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name UnitOfWork --dir ../domain/rating --output domain/rating --outpkg ratingmock --filename unit_of_work_mock.go
