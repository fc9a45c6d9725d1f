package mocks

//go:generate mockgen -destination=./mock_classifier.go -package=mocks github.com/rxtech-lab/argo-features/internal/classifier Classifier
//go:generate mockgen -destination=./mock_bar_source.go -package=mocks github.com/rxtech-lab/argo-features/internal/datasource BarSource
