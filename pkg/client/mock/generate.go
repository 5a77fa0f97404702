package mock

//go:generate go install github.com/golang/mock/mockgen@v1.6.0
//go:generate mockgen -package mock -destination ./doer.mock.go github.com/zitadel/oidcclient/pkg/http Doer
