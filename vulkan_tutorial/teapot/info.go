package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/teapot-tutorial/launchpad"
	"github.com/xlab/tablewriter"
)

type queueFamilyReport struct {
	Flags    string
	Queues   int
	Graphics bool
	Present  bool
}

type deviceReport struct {
	Candidate     launchpad.DeviceCandidate
	APIVersion    string
	DriverVersion string
	VendorID      uint32
	DeviceID      uint32
	QueueFamilies []queueFamilyReport
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// renderDeviceReport draws one table per device. selected is -1 when no device is usable.
func renderDeviceReport(devices []deviceReport, selected int) string {
	var out string
	for i, device := range devices {
		table := tablewriter.CreateTable()
		table.UTF8Box()
		table.AddTitle(fmt.Sprintf("PHYSICAL DEVICE %d", i))
		table.AddRow("Name", device.Candidate.Name)
		table.AddRow("Type", fmt.Sprint(device.Candidate.Type))
		table.AddRow("API Version", device.APIVersion)
		table.AddRow("Driver Version", device.DriverVersion)
		table.AddRow("Vendor ID", fmt.Sprintf("%#04x", device.VendorID))
		table.AddRow("Device ID", fmt.Sprintf("%#04x", device.DeviceID))
		table.AddRow("Max image dimension 2D", device.Candidate.MaxImageDimension2D)
		table.AddRow("Swapchain support", yesNo(device.Candidate.SupportsSwapchain))
		table.AddRow("Surface formats", device.Candidate.SurfaceFormats)
		table.AddRow("Present modes", device.Candidate.SurfacePresentModes)
		table.AddRow("Suitability", device.Candidate.Suitability())

		table.AddSeparator()
		table.AddRow("QUEUE FAMILIES", "")
		for index, family := range device.QueueFamilies {
			table.AddRow(index, fmt.Sprintf("%s x%d graphics:%s present:%s",
				family.Flags, family.Queues, yesNo(family.Graphics), yesNo(family.Present)))
		}

		out += table.Render() + "\n"
	}

	if selected < 0 {
		out += "No suitable physical device.\n"
	} else {
		out += fmt.Sprintf("Selected physical device %d: %s\n", selected, devices[selected].Candidate.Name)
	}
	return out
}

func (app *TutorialApplication) collectDeviceReport(device core1_0.PhysicalDevice) (deviceReport, error) {
	var report deviceReport

	candidate, err := launchpad.CollectDeviceCandidate(app.instanceDriver, app.surfaceDriver, app.surface, device)
	if err != nil {
		return report, err
	}
	report.Candidate = candidate

	properties, err := app.instanceDriver.GetPhysicalDeviceProperties(device)
	if err != nil {
		return report, errors.Wrap(err, "get physical device properties")
	}
	report.APIVersion = fmt.Sprint(properties.APIVersion)
	report.DriverVersion = fmt.Sprint(properties.DriverVersion)
	report.VendorID = properties.VendorID
	report.DeviceID = properties.DeviceID

	for index, family := range app.instanceDriver.GetPhysicalDeviceQueueFamilyProperties(device) {
		present, _, err := app.surfaceDriver.GetPhysicalDeviceSurfaceSupport(app.surface, device, index)
		if err != nil {
			return report, errors.Wrapf(err, "query presentation support of queue family %d", index)
		}

		report.QueueFamilies = append(report.QueueFamilies, queueFamilyReport{
			Flags:    fmt.Sprint(family.QueueFlags),
			Queues:   int(family.QueueCount),
			Graphics: (family.QueueFlags & core1_0.QueueGraphics) != 0,
			Present:  present,
		})
	}

	return report, nil
}

func (app *TutorialApplication) printDeviceReport() error {
	physicalDevices, _, err := app.instanceDriver.EnumeratePhysicalDevices()
	if err != nil {
		return errors.Wrap(err, "enumerate physical devices")
	}

	var devices []deviceReport
	var candidates []launchpad.DeviceCandidate
	for _, device := range physicalDevices {
		report, err := app.collectDeviceReport(device)
		if err != nil {
			return err
		}
		devices = append(devices, report)
		candidates = append(candidates, report.Candidate)
	}

	selected, err := launchpad.SelectPhysicalDeviceIndex(candidates)
	if err != nil && !errors.Is(err, launchpad.ErrNoSuitableDevice) {
		return err
	}

	fmt.Print(renderDeviceReport(devices, selected))
	return nil
}
