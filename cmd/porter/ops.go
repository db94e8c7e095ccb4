package main

import "context"

func doServicesList(ctx context.Context, cfg cliConfig, includeDeleted bool, out any) error {
	client := newRPCClient(cfg.Socket)
	return client.call(ctx, "services.list", map[string]any{"include_deleted": includeDeleted}, out)
}

func doServicesGet(ctx context.Context, cfg cliConfig, id uint, includeDeleted bool, out any) error {
	client := newRPCClient(cfg.Socket)
	return client.call(ctx, "services.get", map[string]any{"id": id, "include_deleted": includeDeleted}, out)
}

func doServicesCreate(ctx context.Context, cfg cliConfig, host string, port int, out any) error {
	client := newRPCClient(cfg.Socket)
	return client.call(ctx, "services.create", map[string]any{"host": host, "port": port}, out)
}

func doServicesUpdate(ctx context.Context, cfg cliConfig, id uint, host *string, port *int, out any) error {
	client := newRPCClient(cfg.Socket)
	params := map[string]any{"id": id}
	if host != nil {
		params["host"] = *host
	}
	if port != nil {
		params["port"] = *port
	}
	return client.call(ctx, "services.update", params, out)
}

func doServicesDelete(ctx context.Context, cfg cliConfig, id uint) error {
	client := newRPCClient(cfg.Socket)
	return client.call(ctx, "services.delete", map[string]any{"id": id}, nil)
}

func doGatesList(ctx context.Context, cfg cliConfig, includeDeleted bool, out any) error {
	client := newRPCClient(cfg.Socket)
	return client.call(ctx, "gates.list", map[string]any{"include_deleted": includeDeleted}, out)
}

func doGatesGet(ctx context.Context, cfg cliConfig, id uint, includeDeleted bool, out any) error {
	client := newRPCClient(cfg.Socket)
	return client.call(ctx, "gates.get", map[string]any{"id": id, "include_deleted": includeDeleted}, out)
}

func doGatesCreate(ctx context.Context, cfg cliConfig, serviceID uint, host string, port int, out any) error {
	client := newRPCClient(cfg.Socket)
	return client.call(ctx, "gates.create", map[string]any{"service_id": serviceID, "host": host, "port": port}, out)
}

func doGatesUpdate(ctx context.Context, cfg cliConfig, id uint, serviceID *uint, host *string, port *int, out any) error {
	client := newRPCClient(cfg.Socket)
	params := map[string]any{"id": id}
	if serviceID != nil {
		params["service_id"] = *serviceID
	}
	if host != nil {
		params["host"] = *host
	}
	if port != nil {
		params["port"] = *port
	}
	return client.call(ctx, "gates.update", params, out)
}

func doGatesDelete(ctx context.Context, cfg cliConfig, id uint) error {
	client := newRPCClient(cfg.Socket)
	return client.call(ctx, "gates.delete", map[string]any{"id": id}, nil)
}
