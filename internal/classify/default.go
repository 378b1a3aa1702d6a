package classify

// DefaultConfig returns the built-in taxonomy for the Carelink UI suites.
func DefaultConfig() *Config {
	return MustConfig([]Rule{
		{
			Category: "Selenium Exceptions",
			Keywords: []string{
				"InvalidCastException", "InvalidOperationException", "NoSuchElementException",
				"NotImplementedException", "WebDriverTimeoutException", "NullReferenceException",
				"WebDriverException", "FormatException", "BindingException", "JsonReaderException",
				"TimeoutException", "AggregateException", "ComparisonException", "XmlException",
				"ElementNotInteractableException", "HttpRequestException", "NoSuchWindowException",
				"ArgumentNullException", "ApiException", "InvalidElementStateException",
				"StaleElementReferenceException", "DirectoryNotFoundException",
			},
		},
		{
			Category: "Custom Exceptions",
			Keywords: []string{
				"Cities belonging to initiating clinic as well as Specialist clinics are displayed",
				"Data Export failed", "Unexpected page displayed", "No pull record found",
				"No commands available to post", "Collection was modified; enumeration operation may not execute",
				"Row with clinic name", "No patient with key 0 exists",
				"PDF generation failed", "No emails matching the search were found", "No clinic with key 0 exists",
				"Patient is not displayed on Patient Assignment page", "InstrumentCommandsResponse is null",
				"Transmission not found", "HeartFailureManagementLink does not exists",
				"No Archived Transmissions are displayed on the Transmissions List Page",
				"Tranmission with iTransmissionId", "Transmission not found",
				"Unable to retrieve EarliestAppointmentDate for patient", "Patient with DSN",
			},
		},
		{
			Category: "Assert Failed",
			Keywords: []string{
				"Assert.IsTrue", "Assert.Fail", "Assert.AreEqual", "Assert.IsNotNull", "Assert.IsFalse",
				"StringAssert.Contains", "CollectionAssert.AreEquivalent", "Assert.Inconclusive",
			},
		},
		{
			Category: "Data Setup API Error",
			Keywords: []string{
				"Data Setup API error InternalServerError (500)", "Data Setup API error Unauthorized (401)",
				"Data Setup API error NotFound (404)", "DataSetupService timedout",
			},
		},
		{
			Category: "Carelink API Error",
			Keywords: []string{"Carelink API error"},
		},
	})
}
