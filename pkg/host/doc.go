// Package host serves diagram instances over HTTP.
//
// Each instance lives in a session that owns its SVG surface, a mutex that
// serializes every engine call, and the set of live websocket clients. The
// REST routes mirror the instance operations:
//
//	POST   /diagrams                              create from a JSON or YAML document
//	GET    /diagrams                              list instance ids
//	GET    /diagrams/{id}                         state
//	GET    /diagrams/{id}/data                    current document
//	PUT    /diagrams/{id}/data                    replace the document
//	PUT    /diagrams/{id}/options                 replace the options
//	PATCH  /diagrams/{id}/nodes/{node}/status     {"status": "active"}
//	PATCH  /diagrams/{id}/nodes/{node}/position   {"x": 10, "y": 20}
//	POST   /diagrams/{id}/zoom-in|zoom-out|fit|reset|fullscreen
//	POST   /diagrams/{id}/resize                  {"width": 800, "height": 600}
//	GET    /diagrams/{id}/scene.svg               current scene with controls
//	GET    /diagrams/{id}/export                  PNG, or SVG when no rasterizer works
//	DELETE /diagrams/{id}                         dispose
//	GET    /diagrams/{id}/live                    websocket
//
// The live websocket accepts pointer, wheel and touch messages and pushes
// nodeClick, nodePositionChanged, transform and scene messages. A scene
// message follows every settled change: a released pointer, a wheel step,
// or any REST mutation.
//
// Errors are JSON bodies {"error": {"code": ..., "message": ...}} with the
// HTTP status derived from the error code.
package host
