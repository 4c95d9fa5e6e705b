// Package export converts a harness into the normalized wire-list document
// understood by the downstream harness editor.
//
// # Format
//
// The document has two sections:
//
//	{
//	  "bom": {
//	    "X1": {"instance_id": "X1", "part": {"id": "...", "kind": "connector", "mpn": "...", "manufacturer": "...", "spec": {...}}, "unit": "each"},
//	    "W1": {"instance_id": "W1", "part": {"kind": "wire", ...}, "unit": "ft"}
//	  },
//	  "data": {
//	    "mapping": {
//	      "W1":   {"end1": {...}, "end2": {...}, "length_mm": 300},
//	      "C1.1": {"end1": {...}, "end2": null}
//	    },
//	    "connector_positions": {"X1": {"x": 100, "y": 100}},
//	    "cable_positions": {},
//	    "wire_anchors": {},
//	    "design_notes": [],
//	    "bundle_labels": {},
//	    "label_settings": {"show_labels_on_canvas": true, "default_width_mm": 9},
//	    "name": "...",
//	    "description": "...",
//	    "notes": null
//	  }
//	}
//
// Catalog and mapping keys keep construction order, so the output of an
// unchanged harness only differs in catalog part ids between runs.
//
// # Cable Cores
//
// A cable core has two physical ends but each end is its own connection in
// the harness. [Serialize] folds both into one mapping entry keyed
// "<cable>.<core>", taking end1 from whichever connection came first.
//
// # Usage
//
//	doc, err := export.Serialize(h)
//	if err != nil {
//	    return err
//	}
//	err = export.WriteJSON(doc, os.Stdout)
//
// Use [ExportFile] to write straight to disk and [ReadDocument] or
// [ImportFile] to load a document back for inspection.
package export
