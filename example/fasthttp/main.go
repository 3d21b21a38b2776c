package main

import (
	"github.com/lixenwraith/rollog"
	"github.com/lixenwraith/rollog/compat"
	"github.com/valyala/fasthttp"
)

func main() {
	// Rotate hourly or at 10MB, whichever comes first
	logger, err := rollog.NewBuilder().
		Directory("/var/log/fasthttp").
		MaxFileSize(10 * 1024 * 1024).
		MaxFileAge(3600).
		Build()
	if err != nil {
		panic(err)
	}
	defer logger.Close()

	adapter := compat.NewFastHTTPAdapter(logger)

	server := &fasthttp.Server{
		Handler: func(ctx *fasthttp.RequestCtx) {
			ctx.SetBodyString("hello")
		},
		Logger: adapter,
	}

	if err := server.ListenAndServe("127.0.0.1:8080"); err != nil {
		panic(err)
	}
}
