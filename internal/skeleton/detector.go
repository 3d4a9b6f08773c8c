package skeleton

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/janelia-flyem/marktips/internal/dvid"
	"github.com/janelia-flyem/marktips/internal/geom"
	"github.com/janelia-flyem/marktips/internal/locator"
)

// DefaultInstance is the keyvalue instance DVID stores skeletons in.
const DefaultInstance = "segmentation_skeletons"

// KeyReader reads one key from a keyvalue instance.
type KeyReader interface {
	Key(ctx context.Context, instance, key string) ([]byte, error)
}

// Detector finds tips on skeletons stored in DVID under "<body>_swc".
type Detector struct {
	store    KeyReader
	instance string
	progress func(format string, v ...interface{})
}

var _ locator.Detector = (*Detector)(nil)

// NewDetector creates a Detector reading from instance. progress receives
// informational text and may be nil.
func NewDetector(store KeyReader, instance string, progress func(string, ...interface{})) *Detector {
	if instance == "" {
		instance = DefaultInstance
	}
	if progress == nil {
		progress = func(string, ...interface{}) {}
	}
	return &Detector{store: store, instance: instance, progress: progress}
}

// DetectTips returns the tips of the body's skeleton. A missing or empty
// skeleton is a *locator.NoSkeletonError.
func (d *Detector) DetectTips(ctx context.Context, body string) ([]geom.Point, error) {
	d.progress("fetching skeleton for body %s from %s", body, d.instance)
	data, err := d.store.Key(ctx, d.instance, body+"_swc")
	if err != nil {
		var storeErr *dvid.StoreRequestError
		if errors.As(err, &storeErr) && storeErr.StatusCode == http.StatusNotFound {
			return nil, &locator.NoSkeletonError{Body: body}
		}
		return nil, fmt.Errorf("fetch skeleton for body %s: %w", body, err)
	}

	skel, err := ParseSWC(data)
	if err != nil {
		return nil, fmt.Errorf("body %s: %w", body, err)
	}
	if len(skel.Nodes) == 0 {
		return nil, &locator.NoSkeletonError{Body: body}
	}

	tips := skel.Tips()
	d.progress("body %s: %d skeleton nodes, %d tips", body, len(skel.Nodes), len(tips))
	return tips, nil
}
