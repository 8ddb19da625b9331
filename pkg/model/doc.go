// Package model defines the typed form schema consumed by the wizard, the
// validation engine, and every renderer. A FormSchema is an ordered list of
// sections; each section groups fields that are validated together when the
// user leaves it. Field and value/error maps are joined solely by fieldId.
//
// FieldType is an open string on the wire (schemas come from a remote API) but
// every consumer dispatches on the closed Kind variant returned by
// FieldType.Kind, with KindUnknown as the total fallback.
package model
