package middleware

import "github.com/danielgtaylor/huma/v2"

// Container накапливает middleware для очередного обработчика; после
// GetAllAndClear набор начинается заново
type Container struct {
	middlewares []func(huma.Context, func(huma.Context))
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Add(mw func(huma.Context, func(huma.Context))) {
	c.middlewares = append(c.middlewares, mw)
}

func (c *Container) GetAllAndClear() []func(huma.Context, func(huma.Context)) {
	mws := c.middlewares
	c.middlewares = nil
	return mws
}
