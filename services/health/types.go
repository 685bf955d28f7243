package health

type Service interface {
}

type Impl struct {
	countStops func() int
}
