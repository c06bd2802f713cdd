package visibility

import (
	"log"
	"slices"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Access statuses stored on an event.
const (
	StatusPublic  = "public"
	StatusPrivate = "private"
)

// Descriptor is the access policy stored on an event. Writes always persist
// the tagged object shape; reads normalize the legacy forms (bare "public"
// string, mixed-case restriction keys) that older records still carry.
type Descriptor struct {
	Status       string   `json:"status" bson:"status"`
	RestrictedTo []string `json:"restrictedTo,omitempty" bson:"restrictedto,omitempty"`
}

// Public is a convenience constructor for the default policy.
func Public() Descriptor {
	return Descriptor{Status: StatusPublic}
}

// Normalized returns a copy with any unknown status reduced to public.
// Malformed historical values fail open so that events are never hidden
// by bad data; the caller learns about it via the warning log.
func (d Descriptor) Normalized() Descriptor {
	switch d.Status {
	case StatusPublic, StatusPrivate:
		return d
	default:
		log.Printf("visibility: unknown status %q, defaulting to public", d.Status)
		return Descriptor{Status: StatusPublic, RestrictedTo: d.RestrictedTo}
	}
}

// UnmarshalBSONValue accepts the legacy bare-string form ("public") as well
// as the tagged object form, normalizing everything else to public.
func (d *Descriptor) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}

	switch t {
	case bson.TypeString:
		*d = Descriptor{Status: rv.StringValue()}.Normalized()
		return nil
	case bson.TypeEmbeddedDocument:
		var raw bson.Raw
		if err := rv.Unmarshal(&raw); err != nil {
			log.Printf("visibility: undecodable descriptor, defaulting to public: %v", err)
			*d = Public()
			return nil
		}
		var out Descriptor
		if sv, err := raw.LookupErr("status"); err == nil && sv.Type == bson.TypeString {
			out.Status = sv.StringValue()
		}
		for _, key := range []string{"restrictedto", "restrictedTo"} {
			av, err := raw.LookupErr(key)
			if err != nil || av.Type != bson.TypeArray {
				continue
			}
			elems, err := av.Array().Values()
			if err != nil {
				continue
			}
			for _, e := range elems {
				if e.Type == bson.TypeString {
					out.RestrictedTo = append(out.RestrictedTo, e.StringValue())
				}
			}
			break
		}
		*d = out.Normalized()
		return nil
	default:
		log.Printf("visibility: unexpected bson type %v, defaulting to public", t)
		*d = Public()
		return nil
	}
}

// Viewer identifies who is asking. The zero value is an anonymous viewer.
type Viewer struct {
	ID    string
	Email string
}

func (v Viewer) Anonymous() bool { return v.ID == "" }

// CanView decides whether the viewer may read an event with the given
// policy and organizer. Public events are readable by everyone, including
// when the object form carries a restrictedTo list (the list is an additive
// allow-list and never subtracts from public access). Private events are
// readable only by the organizer and the listed emails.
func CanView(d Descriptor, organizerID string, v Viewer) bool {
	d = d.Normalized()
	if d.Status == StatusPublic {
		return true
	}
	if !v.Anonymous() && v.ID == organizerID {
		return true
	}
	return v.Email != "" && slices.Contains(d.RestrictedTo, v.Email)
}

// ListFilter builds the Mongo predicate for list queries: public events,
// events the viewer organizes, and private events that allow the viewer's
// email. Anonymous viewers get public events only. Public matches both the
// tagged object shape and the legacy bare-string records that reads still
// accept.
func ListFilter(v Viewer) bson.M {
	public := []bson.M{
		{"visibility.status": StatusPublic},
		{"visibility": StatusPublic},
	}
	if v.Anonymous() {
		return bson.M{"$or": public}
	}
	return bson.M{"$or": append(public,
		bson.M{"organizerid": v.ID},
		bson.M{
			"visibility.status":       StatusPrivate,
			"visibility.restrictedto": v.Email,
		},
	)}
}

// OwnerFilter is the dashboard predicate: ownership alone, every
// visibility condition bypassed.
func OwnerFilter(organizerID string) bson.M {
	return bson.M{"organizerid": organizerID}
}
