// Package http provides Laravel-compatible request and response helpers for
// the framework's HTTP surface.
//
// # Request
//
//	req := gohttp.NewRequest(r)
//
//	key   := req.RouteParam("key")   // chi route params
//	phase := req.Query("phase", "")
//	req.IsJSON()
//	req.WantsYAML()                  // ?format=yaml or Accept: application/yaml
//
// # Response
//
//	res := gohttp.NewResponse(w)
//
//	res.JSON(200, data)              // raw JSON with status
//	res.YAML(200, data)
//	res.Negotiate(req, 200, data)    // YAML or JSON, per WantsYAML
//	res.Success(data)                // 200 {"data": ...}
//	res.NoContent()                  // 204
//
//	res.Error(409, "conflict")       // {"message": "conflict"}
//	res.NotFound()                   // 404 {"message": "Not found."}
//	res.ServerError()                // 500 {"message": "Server Error."}
package http
