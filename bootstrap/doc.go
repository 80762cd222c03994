// Package bootstrap runs the service lifecycle: typed config validation,
// component start in registration order, startup hooks, a startup summary,
// signal handling and graceful shutdown in reverse order.
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    return err
//	}
//	_ = app.RegisterComponent(serverComponent)
//	return app.Run(ctx)
package bootstrap
