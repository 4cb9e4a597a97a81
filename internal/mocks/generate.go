package mocks

//go:generate mockery --name DocumentStore --srcpkg github.com/timely-lab/timely-admin/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
