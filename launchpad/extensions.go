package launchpad

import (
	"log"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_portability_enumeration"
)

const ValidationLayerName = "VK_LAYER_KHRONOS_validation"

// RequiredInstanceExtensions lists the instance extensions the framework itself needs.
// Only the debug messenger is required, and only when validation is on.
func RequiredInstanceExtensions(validation bool) []string {
	if !validation {
		return nil
	}
	return []string{ext_debug_utils.ExtensionName}
}

// PortabilityInstanceExtensions returns the portability enumeration extension when the loader
// supports it, so MoltenVK devices are listed. It is optional and never fails the merge.
func PortabilityInstanceExtensions(supported func(name string) bool) []string {
	if !supported(khr_portability_enumeration.ExtensionName) {
		return nil
	}
	return []string{khr_portability_enumeration.ExtensionName}
}

// MergeExtensions concatenates the given extension lists in order, dropping duplicates, and
// checks every entry against supported. The first unsupported extension aborts the merge.
func MergeExtensions(supported func(name string) bool, lists ...[]string) ([]string, error) {
	seen := make(map[string]struct{})
	var merged []string

	for _, list := range lists {
		for _, ext := range list {
			if _, dup := seen[ext]; dup {
				continue
			}
			seen[ext] = struct{}{}

			if !supported(ext) {
				return nil, errors.Wrapf(ErrExtensionNotSupported, "Required extension %q is not supported", ext)
			}
			log.Printf("Extension %q is supported", ext)
			merged = append(merged, ext)
		}
	}

	return merged, nil
}

// IsInstanceExtensionSupported reports whether the Vulkan loader exposes the instance extension.
func IsInstanceExtensionSupported(driver core1_0.GlobalDriver, name string) (bool, error) {
	extensions, _, err := driver.AvailableExtensions()
	if err != nil {
		return false, errors.Wrap(err, "enumerate instance extensions")
	}

	_, has := extensions[name]
	return has, nil
}

// IsInstanceLayerSupported reports whether the Vulkan loader exposes the instance layer.
func IsInstanceLayerSupported(driver core1_0.GlobalDriver, name string) (bool, error) {
	layers, _, err := driver.AvailableLayers()
	if err != nil {
		return false, errors.Wrap(err, "enumerate instance layers")
	}

	_, has := layers[name]
	return has, nil
}
