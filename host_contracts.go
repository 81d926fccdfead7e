package pluginsdk

// Host-side contract notes:
//
// The host bridge is responsible for translating HostCall requests into the
// native plugin API of the automation host, and for queueing the host's
// plugin callbacks as events the EventDispatcher can long-poll.
//
// A typical bridge implementation will:
// - serve hostrpc.PluginHostService on DZ_BRIDGE_GRPC_ADDR,
// - expose GET /v1/plugin-events for the dispatcher's long poll,
// - keep one event queue per plugin key, ordered by event ID.
//
// Routing identity:
// - A plugin instance is identified by its plugin key (Parameters Key).
// - Devices are identified within the plugin by unit number, the same key
//   the host uses for its device dictionary.
//
// Suggested bridge implementation pattern:
//
// type bridge struct {
//     hostrpc.UnimplementedPluginHostServiceServer
//     router HostRouter // your internal interface into the host runtime
// }
//
// func (b *bridge) HostCall(ctx context.Context, req *hostrpc.HostCallRequest) (*hostrpc.HostCallResponse, error) {
//     return b.router.Invoke(ctx, req.PluginKey, req.Method, req.ArgsJson)
// }
//
// This file is documentation-only (no runtime code required).
