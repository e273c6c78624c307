// Package source feeds toggle definitions into the rollout engine from the
// outside world. The engine itself never fetches anything; a source pushes
// complete replacement sets through the Handler interface, which the engine
// implements with its merge and validation rules attached.
//
// Two sources are provided. FileSource reads a YAML or JSON document from
// disk and can watch it for changes:
//
//	src, err := source.NewFileSource("/etc/togglekit/toggles.yaml", engine)
//	if err != nil {
//		return err
//	}
//	go src.Watch(ctx)
//
// Poller wraps a caller-supplied fetch function on a cron schedule, keeping
// transport concerns out of this package entirely:
//
//	poller, err := source.NewPoller(fetchFromControlPlane, engine,
//		source.WithSchedule("@every 30s"))
//	if err != nil {
//		return err
//	}
//	go poller.Run(ctx)
//
// Both sources follow the same failure policy: a malformed document, a failed
// fetch, or a rejected batch is logged and skipped, and the engine keeps
// serving the last good definitions. A bad update can therefore delay a
// refresh but never degrade evaluation.
//
// # Document Format
//
// Toggle documents hold a single toggles list; list order is preserved and
// becomes the variant bucket order used for assignment:
//
//	toggles:
//	  - name: checkout-redesign
//	    active: true
//	    variants:
//	      - name: control
//	        weight: 50
//	      - name: blue
//	        weight: 50
//	        payload: '{"theme":"blue"}'
//
// JSON documents use the same structure and are validated against a JSON
// Schema before decoding; YAML documents are decoded strictly, rejecting
// unknown fields. ParseDocument is exported so custom transports can reuse
// the format.
package source
